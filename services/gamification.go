// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/mascon/auth"
	"github.com/danielhkuo/mascon/db"
	"github.com/danielhkuo/mascon/models"
)

// Point-earning actions
const (
	ActionSessionAttendance = "session_attendance"
	ActionPollVote          = "poll_vote"
	ActionContactExchange   = "contact_exchange"
	ActionPhotoUpload       = "photo_upload"
	ActionQuestionAsked     = "question_asked"
	ActionProfileComplete   = "profile_complete"
	ActionEarlyCheckin      = "early_checkin"
	ActionAdjustment        = "adjustment"
)

// PointValues is the fixed award table. Adjustments carry their own amount.
var PointValues = map[string]int{
	ActionSessionAttendance: 10,
	ActionPollVote:          5,
	ActionContactExchange:   15,
	ActionPhotoUpload:       10,
	ActionQuestionAsked:     20,
	ActionProfileComplete:   25,
	ActionEarlyCheckin:      30,
}

// clientActions are the actions a caller may report for themselves. The
// rest are awarded by the server as a side effect of the real write. A true
// value means the action counts once per event whatever key is sent.
var clientActions = map[string]bool{
	ActionSessionAttendance: false,
	ActionPhotoUpload:       false,
	ActionEarlyCheckin:      true,
}

// clientKeyPrefix keeps caller keys apart from server award keys
const clientKeyPrefix = "client:"

const (
	defaultLeaderboardLimit = 50
	maxLeaderboardLimit     = 100
)

// GamificationService is an append-only points ledger
type GamificationService struct {
	db *sql.DB
}

func NewGamificationService(conn *sql.DB) *GamificationService {
	return &GamificationService{db: conn}
}

// awardTx appends a ledger row inside a larger write. A repeated key is
// silently skipped; the return value reports whether a row was added.
func awardTx(ctx context.Context, q querier, userID, eventID, action, key string) (bool, error) {
	points, ok := PointValues[action]
	if !ok {
		return false, fmt.Errorf("unknown action %q", action)
	}

	res, err := q.ExecContext(ctx, `
		INSERT INTO gamification_point (id, user_id, event_id, action, points, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_id, user_id, idempotency_key) DO NOTHING
	`, auth.NewID(), userID, eventID, action, points, nullKey(key), now())
	if err != nil {
		return false, fmt.Errorf("award %s: %w", action, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func nullKey(key string) sql.NullString {
	return sql.NullString{String: key, Valid: key != ""}
}

// clientKey maps a caller supplied key into its own namespace
func clientKey(action, key string) string {
	if clientActions[action] {
		return clientKeyPrefix + action
	}
	if key == "" {
		return ""
	}
	return clientKeyPrefix + key
}

// Award appends points for a client reportable action. With an idempotency
// key a retry returns the original row instead of awarding twice.
func (s *GamificationService) Award(ctx context.Context, userID, eventID string, req models.AwardPointsRequest) (models.AwardResponse, error) {
	if err := validateRequest(req); err != nil {
		return models.AwardResponse{}, err
	}
	points, ok := PointValues[req.Action]
	if !ok {
		return models.AwardResponse{}, invalid("action", "unknown action: "+req.Action)
	}
	if _, ok := clientActions[req.Action]; !ok {
		return models.AwardResponse{}, invalid("action", req.Action+" is awarded by the server")
	}
	key := clientKey(req.Action, req.IdempotencyKey)

	entry := models.PointEntry{
		ID:        auth.NewID(),
		UserID:    userID,
		EventID:   eventID,
		Action:    req.Action,
		Points:    points,
		CreatedAt: now(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO gamification_point (id, user_id, event_id, action, points, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.UserID, entry.EventID, entry.Action, entry.Points, nullKey(key), entry.CreatedAt)

	if db.IsUniqueViolation(err) {
		existing, err := s.entryByKey(ctx, userID, eventID, key)
		if err != nil {
			return models.AwardResponse{}, err
		}
		return models.AwardResponse{Success: true, Entry: existing, Duplicate: true}, nil
	}
	if err != nil {
		return models.AwardResponse{}, writeErr(err, "insert points", "user")
	}

	return models.AwardResponse{Success: true, Entry: entry}, nil
}

func (s *GamificationService) entryByKey(ctx context.Context, userID, eventID, key string) (models.PointEntry, error) {
	var e models.PointEntry
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, event_id, action, points, reason, created_at
		FROM gamification_point
		WHERE event_id = $1 AND user_id = $2 AND idempotency_key = $3
	`, eventID, userID, key).Scan(&e.ID, &e.UserID, &e.EventID, &e.Action, &e.Points, &e.Reason, &e.CreatedAt)
	if err != nil {
		return models.PointEntry{}, fmt.Errorf("query points by key: %w", err)
	}
	return e, nil
}

// Adjust records a compensating row. Organizers only.
func (s *GamificationService) Adjust(ctx context.Context, organizerID, eventID string, req models.AdjustPointsRequest) (models.PointEntry, error) {
	if err := validateRequest(req); err != nil {
		return models.PointEntry{}, err
	}
	if err := requireOrganizer(ctx, s.db, organizerID, eventID); err != nil {
		return models.PointEntry{}, err
	}

	reason := req.Reason
	entry := models.PointEntry{
		ID:        auth.NewID(),
		UserID:    req.UserID,
		EventID:   eventID,
		Action:    ActionAdjustment,
		Points:    req.Points,
		Reason:    &reason,
		CreatedAt: now(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO gamification_point (id, user_id, event_id, action, points, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.UserID, entry.EventID, entry.Action, entry.Points, reason, entry.CreatedAt)
	if err != nil {
		return models.PointEntry{}, writeErr(err, "insert adjustment", "user")
	}

	return entry, nil
}

// Leaderboard ranks users by total points, ties broken by user id
func (s *GamificationService) Leaderboard(ctx context.Context, eventID string, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userSummaryCols+`, SUM(g.points) AS total
		FROM gamification_point g
		JOIN app_user u ON u.id = g.user_id
		WHERE g.event_id = $1
		GROUP BY u.id, u.name, u.image, u.company
		ORDER BY total DESC, u.id ASC
		LIMIT $2
	`, eventID, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	board := []models.LeaderboardEntry{}
	for rows.Next() {
		var u models.UserSummary
		var total int
		if err := rows.Scan(append(scanUserSummary(&u), &total)...); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		board = append(board, models.LeaderboardEntry{
			Rank:   len(board) + 1,
			UserID: u.ID,
			Points: total,
			User:   &u,
		})
	}
	return board, rows.Err()
}

// UserTotal sums a user's rows in the event, 0 when there are none
func (s *GamificationService) UserTotal(ctx context.Context, userID, eventID string) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(points), 0) FROM gamification_point WHERE user_id = $1 AND event_id = $2
	`, userID, eventID).Scan(&total)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("query total: %w", err)
	}
	return total, nil
}

// History lists a user's ledger rows, newest first
func (s *GamificationService) History(ctx context.Context, userID, eventID string) ([]models.PointEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, event_id, action, points, reason, created_at
		FROM gamification_point
		WHERE user_id = $1 AND event_id = $2
		ORDER BY created_at DESC, id DESC
	`, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := []models.PointEntry{}
	for rows.Next() {
		var e models.PointEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.EventID, &e.Action, &e.Points, &e.Reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan point entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
