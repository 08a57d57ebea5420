// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/danielhkuo/mascon/auth"
	"github.com/danielhkuo/mascon/db"
	"github.com/danielhkuo/mascon/models"
)

// AgendaService manages each user's personal agenda within an event
type AgendaService struct {
	db *sql.DB
}

func NewAgendaService(conn *sql.DB) *AgendaService {
	return &AgendaService{db: conn}
}

// AddSession puts a session on the user's agenda. Adding a session that is
// already present succeeds and reports the existing item.
func (s *AgendaService) AddSession(ctx context.Context, userID, eventID string, req models.AddAgendaRequest) (models.AgendaAddResponse, error) {
	if err := validateRequest(req); err != nil {
		return models.AgendaAddResponse{}, err
	}
	if err := sessionInEvent(ctx, s.db, req.SessionID, eventID); err != nil {
		return models.AgendaAddResponse{}, err
	}

	id := auth.NewID()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO my_agenda_item (id, user_id, event_id, session_id, is_custom, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, userID, eventID, req.SessionID, false, now())

	if db.IsUniqueViolation(err) {
		var existing string
		if err := s.db.QueryRowContext(ctx, `
			SELECT id FROM my_agenda_item WHERE user_id = $1 AND session_id = $2
		`, userID, req.SessionID).Scan(&existing); err != nil {
			return models.AgendaAddResponse{}, fmt.Errorf("query agenda item: %w", err)
		}
		return models.AgendaAddResponse{
			Success:        true,
			ID:             existing,
			AlreadyPresent: true,
			Message:        "Already in your agenda",
		}, nil
	}
	if err != nil {
		return models.AgendaAddResponse{}, writeErr(err, "insert agenda item", "user")
	}

	return models.AgendaAddResponse{Success: true, ID: id}, nil
}

// RemoveItem deletes an agenda item by its id. Missing items are not an error.
func (s *AgendaService) RemoveItem(ctx context.Context, userID, eventID, itemID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM my_agenda_item WHERE id = $1 AND user_id = $2 AND event_id = $3
	`, itemID, userID, eventID)
	if err != nil {
		return fmt.Errorf("delete agenda item: %w", err)
	}
	return nil
}

// RemoveSession deletes the agenda item that references a session
func (s *AgendaService) RemoveSession(ctx context.Context, userID, eventID, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM my_agenda_item WHERE session_id = $1 AND user_id = $2 AND event_id = $3
	`, sessionID, userID, eventID)
	if err != nil {
		return fmt.Errorf("delete agenda session: %w", err)
	}
	return nil
}

// CreateCustom adds a personal activity that is not backed by a session
func (s *AgendaService) CreateCustom(ctx context.Context, userID, eventID string, req models.CreateCustomActivityRequest) (models.AgendaEntry, error) {
	if err := validateRequest(req); err != nil {
		return models.AgendaEntry{}, err
	}

	entry := models.AgendaEntry{
		ID:        auth.NewID(),
		IsCustom:  true,
		Title:     req.Title,
		StartTime: req.StartTime.UTC(),
		EndTime:   req.EndTime.UTC(),
		Location:  req.Location,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO my_agenda_item (id, user_id, event_id, is_custom, custom_title, custom_start_time, custom_end_time, custom_location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, entry.ID, userID, eventID, true, entry.Title, entry.StartTime, entry.EndTime, entry.Location, now())
	if err != nil {
		return models.AgendaEntry{}, writeErr(err, "insert custom activity", "user")
	}

	return entry, nil
}

// List merges session-backed and custom items in start order. A non-zero day
// keeps only entries starting on that UTC date.
func (s *AgendaService) List(ctx context.Context, userID, eventID string, day time.Time) ([]models.AgendaEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.session_id, a.is_custom, a.custom_title, a.custom_start_time, a.custom_end_time, a.custom_location,
		       s.title, s.start_time, s.end_time, s.session_type, s.track, r.name
		FROM my_agenda_item a
		LEFT JOIN event_session s ON s.id = a.session_id
		LEFT JOIN room r ON r.id = s.room_id
		WHERE a.user_id = $1 AND a.event_id = $2
	`, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("query agenda: %w", err)
	}
	defer rows.Close()

	entries := []models.AgendaEntry{}
	for rows.Next() {
		var (
			e                          models.AgendaEntry
			customTitle, customLoc     sql.NullString
			customStart, customEnd     sql.NullTime
			sessTitle, sessType, track sql.NullString
			sessStart, sessEnd         sql.NullTime
			roomName                   sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.IsCustom, &customTitle, &customStart, &customEnd, &customLoc,
			&sessTitle, &sessStart, &sessEnd, &sessType, &track, &roomName); err != nil {
			return nil, fmt.Errorf("scan agenda item: %w", err)
		}

		if e.IsCustom {
			e.Title = customTitle.String
			e.StartTime = customStart.Time
			e.EndTime = customEnd.Time
			e.Location = nullStringPtr(customLoc)
		} else {
			e.Title = sessTitle.String
			e.StartTime = sessStart.Time
			e.EndTime = sessEnd.Time
			e.Location = nullStringPtr(roomName)
			e.SessionType = nullStringPtr(sessType)
			e.Track = nullStringPtr(track)
		}

		if !day.IsZero() && !sameUTCDay(e.StartTime, day) {
			continue
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.StartTime.Equal(b.StartTime) {
			return a.StartTime.Before(b.StartTime)
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})

	return entries, nil
}

func sameUTCDay(t, day time.Time) bool {
	y1, m1, d1 := t.UTC().Date()
	y2, m2, d2 := day.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
