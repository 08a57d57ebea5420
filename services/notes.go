// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/mascon/auth"
	"github.com/danielhkuo/mascon/models"
)

// NoteService keeps one private note per user per session
type NoteService struct {
	db *sql.DB
}

func NewNoteService(conn *sql.DB) *NoteService {
	return &NoteService{db: conn}
}

// Put creates or replaces the caller's note for a session
func (s *NoteService) Put(ctx context.Context, userID, eventID string, req models.PutNoteRequest) (models.Note, error) {
	if err := validateRequest(req); err != nil {
		return models.Note{}, err
	}
	if err := sessionInEvent(ctx, s.db, req.SessionID, eventID); err != nil {
		return models.Note{}, err
	}

	ts := now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_note (id, user_id, session_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id, session_id) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at
	`, auth.NewID(), userID, req.SessionID, req.Content, ts)
	if err != nil {
		return models.Note{}, writeErr(err, "upsert note", "user")
	}

	var n models.Note
	err = s.db.QueryRowContext(ctx, `
		SELECT n.id, n.session_id, s.title, n.content, n.updated_at
		FROM session_note n
		JOIN event_session s ON s.id = n.session_id
		WHERE n.user_id = $1 AND n.session_id = $2
	`, userID, req.SessionID).Scan(&n.ID, &n.SessionID, &n.SessionTitle, &n.Content, &n.UpdatedAt)
	if err != nil {
		return models.Note{}, fmt.Errorf("query note: %w", err)
	}
	n.UpdatedAgo = humanize.RelTime(n.UpdatedAt, now(), "ago", "from now")
	return n, nil
}

// List returns the caller's notes in the event, most recently edited first
func (s *NoteService) List(ctx context.Context, userID, eventID string) ([]models.Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT n.id, n.session_id, s.title, n.content, n.updated_at
		FROM session_note n
		JOIN event_session s ON s.id = n.session_id
		WHERE n.user_id = $1 AND s.event_id = $2
		ORDER BY n.updated_at DESC, n.id
	`, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	current := now()
	notes := []models.Note{}
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.SessionID, &n.SessionTitle, &n.Content, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		n.UpdatedAgo = humanize.RelTime(n.UpdatedAt, current, "ago", "from now")
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
