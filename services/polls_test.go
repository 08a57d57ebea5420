// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/mascon/models"
	"github.com/danielhkuo/mascon/testutil"
)

func TestVote_OncePerPoll(t *testing.T) {
	f := newFixture(t)
	svc := NewPollService(f.db)
	pollID, opts := testutil.CreateTestPoll(t, f.db, f.eventID, true, "Go", "Rust")

	first, err := svc.Vote(f.ctx, f.alice, f.eventID, pollID, models.VoteRequest{OptionID: opts[0]})
	if err != nil {
		t.Fatalf("Vote failed: %v", err)
	}
	if !first.Recorded || first.VotesCount != 1 {
		t.Errorf("Expected recorded vote with count 1, got %+v", first)
	}

	// Switching options is not allowed; the original choice is reported
	second, err := svc.Vote(f.ctx, f.alice, f.eventID, pollID, models.VoteRequest{OptionID: opts[1]})
	if err != nil {
		t.Fatalf("Repeat vote failed: %v", err)
	}
	if second.Recorded {
		t.Error("Repeat vote should not be recorded")
	}
	if second.OptionID != opts[0] || second.VotesCount != 1 {
		t.Errorf("Expected prior choice %s with 1 vote, got %+v", opts[0], second)
	}

	var other int
	if err := f.db.QueryRow(`SELECT votes_count FROM poll_option WHERE id = $1`, opts[1]).Scan(&other); err != nil {
		t.Fatal(err)
	}
	if other != 0 {
		t.Errorf("Expected second option untouched, got %d votes", other)
	}

	if got := f.total(t, f.alice); got != PointValues[ActionPollVote] {
		t.Errorf("Expected %d points for one vote, got %d", PointValues[ActionPollVote], got)
	}
}

func TestVote_Errors(t *testing.T) {
	f := newFixture(t)
	svc := NewPollService(f.db)

	active, activeOpts := testutil.CreateTestPoll(t, f.db, f.eventID, true, "A", "B")
	closed, closedOpts := testutil.CreateTestPoll(t, f.db, f.eventID, false, "A", "B")
	other := testutil.CreateTestEvent(t, f.db, "other")
	foreign, foreignOpts := testutil.CreateTestPoll(t, f.db, other, true, "A", "B")

	tests := []struct {
		name   string
		pollID string
		option string
		check  func(*testing.T, error)
	}{
		{"unknown poll", "missing", activeOpts[0], func(t *testing.T, err error) { assertNotFound(t, err, "poll") }},
		{"poll in another event", foreign, foreignOpts[0], func(t *testing.T, err error) { assertNotFound(t, err, "poll") }},
		{"option from another poll", active, closedOpts[0], func(t *testing.T, err error) { assertNotFound(t, err, "option") }},
		{"inactive poll", closed, closedOpts[0], func(t *testing.T, err error) {
			if !errors.Is(err, ErrConflict) {
				t.Errorf("Expected conflict, got %v", err)
			}
		}},
		{"missing option id", active, "", func(t *testing.T, err error) { assertInvalid(t, err, "option_id") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Vote(f.ctx, f.alice, f.eventID, tt.pollID, models.VoteRequest{OptionID: tt.option})
			tt.check(t, err)
		})
	}

	if n := f.count(t, `SELECT COUNT(*) FROM poll_vote`); n != 0 {
		t.Errorf("Expected no votes stored, got %d", n)
	}
}

// TestVote_Concurrent checks the counter matches the vote rows when many
// users vote at once
func TestVote_Concurrent(t *testing.T) {
	f := newFixture(t)
	svc := NewPollService(f.db)
	pollID, opts := testutil.CreateTestPoll(t, f.db, f.eventID, true, "Yes", "No")

	numVoters := 20
	voters := make([]string, numVoters)
	for i := range voters {
		voters[i] = testutil.CreateTestUser(t, f.db, fmt.Sprintf("Voter %d", i))
	}

	var recorded atomic.Int32
	var wg sync.WaitGroup
	for i, voter := range voters {
		wg.Add(1)
		go func(i int, voter string) {
			defer wg.Done()
			resp, err := svc.Vote(f.ctx, voter, f.eventID, pollID, models.VoteRequest{OptionID: opts[i%2]})
			if err != nil {
				t.Errorf("Vote failed: %v", err)
				return
			}
			if resp.Recorded {
				recorded.Add(1)
			}
		}(i, voter)
	}
	wg.Wait()

	if int(recorded.Load()) != numVoters {
		t.Errorf("Expected %d recorded votes, got %d", numVoters, recorded.Load())
	}

	polls, err := svc.ListPolls(f.ctx, f.alice, f.eventID)
	if err != nil {
		t.Fatalf("ListPolls failed: %v", err)
	}
	if len(polls) != 1 {
		t.Fatalf("Expected 1 poll, got %d", len(polls))
	}
	if polls[0].TotalVotes != numVoters {
		t.Errorf("Expected %d total votes, got %d", numVoters, polls[0].TotalVotes)
	}
	if rows := f.count(t, `SELECT COUNT(*) FROM poll_vote WHERE poll_id = $1`, pollID); rows != numVoters {
		t.Errorf("Expected %d vote rows, got %d", numVoters, rows)
	}
}

func TestListPolls(t *testing.T) {
	f := newFixture(t)
	svc := NewPollService(f.db)

	created, err := svc.CreatePoll(f.ctx, f.organizer, f.eventID, models.CreatePollRequest{
		Question: "Favourite track?",
		Options:  []string{"Backend", "Frontend", "Infra"},
	})
	if err != nil {
		t.Fatalf("CreatePoll failed: %v", err)
	}
	newer, err := svc.CreatePoll(f.ctx, f.organizer, f.eventID, models.CreatePollRequest{
		Question: "Coffee or tea?",
		Options:  []string{"Coffee", "Tea"},
	})
	if err != nil {
		t.Fatalf("CreatePoll failed: %v", err)
	}
	testutil.CreateTestPoll(t, f.db, f.eventID, false, "Hidden", "Poll")

	if _, err := svc.Vote(f.ctx, f.alice, f.eventID, created.ID, models.VoteRequest{OptionID: created.Options[2].ID}); err != nil {
		t.Fatal(err)
	}

	polls, err := svc.ListPolls(f.ctx, f.alice, f.eventID)
	if err != nil {
		t.Fatalf("ListPolls failed: %v", err)
	}
	if len(polls) != 2 {
		t.Fatalf("Expected 2 active polls, got %d", len(polls))
	}
	if polls[0].ID != newer.ID {
		t.Errorf("Expected newest poll first, got %q", polls[0].Question)
	}

	voted := polls[1]
	if voted.MyOptionID == nil || *voted.MyOptionID != created.Options[2].ID {
		t.Errorf("Expected my option %s, got %v", created.Options[2].ID, voted.MyOptionID)
	}
	if polls[0].MyOptionID != nil {
		t.Error("Expected no choice on the unvoted poll")
	}
	for i, o := range voted.Options {
		if o.Position != i {
			t.Errorf("Expected option %d at position %d, got %d", i, i, o.Position)
		}
	}
	if voted.TotalVotes != 1 {
		t.Errorf("Expected 1 total vote, got %d", voted.TotalVotes)
	}

	// Another viewer sees the same counts without a choice
	bobView, err := svc.ListPolls(f.ctx, f.bob, f.eventID)
	if err != nil {
		t.Fatal(err)
	}
	if bobView[1].MyOptionID != nil {
		t.Error("Bob should not see Alice's choice")
	}
}

func TestCreatePoll_Access(t *testing.T) {
	f := newFixture(t)
	svc := NewPollService(f.db)

	req := models.CreatePollRequest{Question: "Q?", Options: []string{"A", "B"}}
	_, err := svc.CreatePoll(f.ctx, f.alice, f.eventID, req)
	assertNotFound(t, err, "resource")

	other := testutil.CreateTestEvent(t, f.db, "other")
	foreign := testutil.CreateTestSession(t, f.db, other, "Elsewhere", fakeClockBase)
	req.SessionID = &foreign
	_, err = svc.CreatePoll(f.ctx, f.organizer, f.eventID, req)
	assertNotFound(t, err, "session")
}

func TestSetActive(t *testing.T) {
	f := newFixture(t)
	svc := NewPollService(f.db)
	pollID, opts := testutil.CreateTestPoll(t, f.db, f.eventID, true, "A", "B")

	err := svc.SetActive(f.ctx, f.alice, f.eventID, pollID, false)
	assertNotFound(t, err, "resource")

	if err := svc.SetActive(f.ctx, f.organizer, f.eventID, pollID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	_, err = svc.Vote(f.ctx, f.alice, f.eventID, pollID, models.VoteRequest{OptionID: opts[0]})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("Expected conflict on closed poll, got %v", err)
	}

	if err := svc.SetActive(f.ctx, f.organizer, f.eventID, pollID, true); err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	if _, err := svc.Vote(f.ctx, f.alice, f.eventID, pollID, models.VoteRequest{OptionID: opts[0]}); err != nil {
		t.Errorf("Vote on reopened poll failed: %v", err)
	}

	err = svc.SetActive(f.ctx, f.organizer, f.eventID, "missing", true)
	assertNotFound(t, err, "poll")
}
