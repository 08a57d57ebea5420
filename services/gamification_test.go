// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"fmt"
	"sort"
	"testing"

	"github.com/danielhkuo/mascon/models"
	"github.com/danielhkuo/mascon/testutil"
)

func TestAward(t *testing.T) {
	f := newFixture(t)
	svc := NewGamificationService(f.db)

	_, err := svc.Award(f.ctx, f.alice, f.eventID, models.AwardPointsRequest{Action: "teleport"})
	assertInvalid(t, err, "action")

	keyed := models.AwardPointsRequest{Action: ActionSessionAttendance, IdempotencyKey: "checkin:keynote"}
	first, err := svc.Award(f.ctx, f.alice, f.eventID, keyed)
	if err != nil {
		t.Fatalf("Award failed: %v", err)
	}
	if first.Duplicate || first.Entry.Points != 10 {
		t.Errorf("Expected new 10 point entry, got %+v", first)
	}

	retry, err := svc.Award(f.ctx, f.alice, f.eventID, keyed)
	if err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if !retry.Duplicate || retry.Entry.ID != first.Entry.ID {
		t.Errorf("Expected original entry %s, got %+v", first.Entry.ID, retry)
	}

	// Without a key every call appends
	for i := 0; i < 2; i++ {
		if _, err := svc.Award(f.ctx, f.alice, f.eventID, models.AwardPointsRequest{Action: ActionPhotoUpload}); err != nil {
			t.Fatal(err)
		}
	}

	if got := f.total(t, f.alice); got != 30 {
		t.Errorf("Expected 30 points, got %d", got)
	}

	// The same key in another event is a separate award
	other := testutil.CreateTestEvent(t, f.db, "other")
	elsewhere, err := svc.Award(f.ctx, f.alice, other, keyed)
	if err != nil {
		t.Fatal(err)
	}
	if elsewhere.Duplicate {
		t.Error("Keys should be scoped to the event")
	}

	_, err = svc.Award(f.ctx, "ghost", f.eventID, models.AwardPointsRequest{Action: ActionPhotoUpload})
	assertNotFound(t, err, "user")
}

func TestAward_ServerActionsRefused(t *testing.T) {
	f := newFixture(t)
	svc := NewGamificationService(f.db)

	for _, action := range []string{ActionPollVote, ActionContactExchange, ActionQuestionAsked, ActionProfileComplete} {
		_, err := svc.Award(f.ctx, f.alice, f.eventID, models.AwardPointsRequest{Action: action})
		assertInvalid(t, err, "action")
	}
	if got := f.total(t, f.alice); got != 0 {
		t.Errorf("Expected no points, got %d", got)
	}
}

func TestAward_EarlyCheckinOnce(t *testing.T) {
	f := newFixture(t)
	svc := NewGamificationService(f.db)

	for i := 0; i < 3; i++ {
		req := models.AwardPointsRequest{Action: ActionEarlyCheckin, IdempotencyKey: fmt.Sprintf("door-%d", i)}
		resp, err := svc.Award(f.ctx, f.alice, f.eventID, req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.Duplicate != (i > 0) {
			t.Errorf("Attempt %d: unexpected duplicate=%v", i, resp.Duplicate)
		}
	}
	if got := f.total(t, f.alice); got != PointValues[ActionEarlyCheckin] {
		t.Errorf("Expected a single check-in award, got %d", got)
	}
}

// Caller keys live apart from the keys the server awards under
func TestAward_ClientKeyCannotBlockServerAward(t *testing.T) {
	f := newFixture(t)
	svc := NewGamificationService(f.db)

	req := models.AwardPointsRequest{Action: ActionPhotoUpload, IdempotencyKey: ActionProfileComplete}
	if _, err := svc.Award(f.ctx, f.bob, f.eventID, req); err != nil {
		t.Fatal(err)
	}
	stored := f.count(t, `SELECT COUNT(*) FROM gamification_point WHERE user_id = $1 AND idempotency_key = $2`,
		f.bob, clientKeyPrefix+ActionProfileComplete)
	if stored != 1 {
		t.Errorf("Expected the key stored under the client prefix")
	}

	awarded, err := awardTx(f.ctx, f.db, f.bob, f.eventID, ActionProfileComplete, ActionProfileComplete)
	if err != nil {
		t.Fatal(err)
	}
	if !awarded {
		t.Error("Expected the server award to land")
	}
	if got := f.total(t, f.bob); got != 35 {
		t.Errorf("Expected 35 points, got %d", got)
	}
}

func TestAdjust(t *testing.T) {
	f := newFixture(t)
	svc := NewGamificationService(f.db)

	if _, err := svc.Award(f.ctx, f.alice, f.eventID, models.AwardPointsRequest{Action: ActionEarlyCheckin}); err != nil {
		t.Fatal(err)
	}

	req := models.AdjustPointsRequest{UserID: f.alice, Points: -12, Reason: "Duplicate check-in"}
	_, err := svc.Adjust(f.ctx, f.bob, f.eventID, req)
	assertNotFound(t, err, "resource")

	entry, err := svc.Adjust(f.ctx, f.organizer, f.eventID, req)
	if err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}
	if entry.Action != ActionAdjustment || entry.Reason == nil || *entry.Reason != req.Reason {
		t.Errorf("Unexpected adjustment %+v", entry)
	}
	if got := f.total(t, f.alice); got != 18 {
		t.Errorf("Expected 18 points after adjustment, got %d", got)
	}

	history, err := svc.History(f.ctx, f.alice, f.eventID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 || history[0].ID != entry.ID {
		t.Errorf("Expected adjustment first in history, got %+v", history)
	}

	_, err = svc.Adjust(f.ctx, f.organizer, f.eventID, models.AdjustPointsRequest{UserID: f.alice, Points: 5})
	assertInvalid(t, err, "reason")
}

func TestLeaderboard(t *testing.T) {
	f := newFixture(t)
	svc := NewGamificationService(f.db)
	carol := testutil.CreateTestUser(t, f.db, "Carol")

	award := func(userID, action string, times int) {
		for i := 0; i < times; i++ {
			if _, err := svc.Award(f.ctx, userID, f.eventID, models.AwardPointsRequest{Action: action}); err != nil {
				t.Fatal(err)
			}
		}
	}
	award(f.alice, ActionPhotoUpload, 2)     // 20
	award(f.bob, ActionSessionAttendance, 2) // 20
	award(carol, ActionEarlyCheckin, 1)      // 30

	// Points in another event do not count
	other := testutil.CreateTestEvent(t, f.db, "other")
	if _, err := svc.Award(f.ctx, f.organizer, other, models.AwardPointsRequest{Action: ActionEarlyCheckin}); err != nil {
		t.Fatal(err)
	}

	board, err := svc.Leaderboard(f.ctx, f.eventID, 0)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if len(board) != 3 {
		t.Fatalf("Expected 3 ranked users, got %d", len(board))
	}
	if board[0].UserID != carol || board[0].Points != 30 || board[0].Rank != 1 {
		t.Errorf("Expected Carol first with 30, got %+v", board[0])
	}

	// Ties are broken by user id
	tied := []string{f.alice, f.bob}
	sort.Strings(tied)
	if board[1].UserID != tied[0] || board[2].UserID != tied[1] {
		t.Errorf("Expected tie order %v, got %s, %s", tied, board[1].UserID, board[2].UserID)
	}
	if board[1].Rank != 2 || board[2].Rank != 3 {
		t.Errorf("Expected ranks 2 and 3, got %d and %d", board[1].Rank, board[2].Rank)
	}
	if board[0].User == nil || board[0].User.Name != "Carol" {
		t.Errorf("Expected user summary on entry, got %+v", board[0].User)
	}

	limited, err := svc.Leaderboard(f.ctx, f.eventID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected limit 1, got %d", len(limited))
	}
}

func TestLeaderboard_LimitClamp(t *testing.T) {
	f := newFixture(t)
	svc := NewGamificationService(f.db)

	for i := 0; i < maxLeaderboardLimit+5; i++ {
		u := testutil.CreateTestUser(t, f.db, fmt.Sprintf("Player %03d", i))
		if _, err := svc.Award(f.ctx, u, f.eventID, models.AwardPointsRequest{Action: ActionPhotoUpload}); err != nil {
			t.Fatal(err)
		}
	}

	board, err := svc.Leaderboard(f.ctx, f.eventID, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if len(board) != maxLeaderboardLimit {
		t.Errorf("Expected %d entries, got %d", maxLeaderboardLimit, len(board))
	}

	board, err = svc.Leaderboard(f.ctx, f.eventID, -3)
	if err != nil {
		t.Fatal(err)
	}
	if len(board) != defaultLeaderboardLimit {
		t.Errorf("Expected default %d entries, got %d", defaultLeaderboardLimit, len(board))
	}
}

func TestUserTotal_Empty(t *testing.T) {
	f := newFixture(t)

	if got := f.total(t, f.bob); got != 0 {
		t.Errorf("Expected 0 for a user with no points, got %d", got)
	}

	history, err := NewGamificationService(f.db).History(f.ctx, f.bob, f.eventID)
	if err != nil {
		t.Fatal(err)
	}
	if history == nil || len(history) != 0 {
		t.Errorf("Expected empty non-nil history, got %v", history)
	}
}
