// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/mascon/auth"
	"github.com/danielhkuo/mascon/models"
)

// EventService resolves event scope and manages sessions
type EventService struct {
	db *sql.DB
}

func NewEventService(conn *sql.DB) *EventService {
	return &EventService{db: conn}
}

// BySlug resolves the human-readable event identifier
func (s *EventService) BySlug(ctx context.Context, slug string) (models.Event, error) {
	var e models.Event
	err := s.db.QueryRowContext(ctx, `
		SELECT id, slug, name, description, venue, start_date, end_date, created_at
		FROM event WHERE slug = $1
	`, slug).Scan(&e.ID, &e.Slug, &e.Name, &e.Description, &e.Venue, &e.StartDate, &e.EndDate, &e.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, notFound("event")
	}
	if err != nil {
		return models.Event{}, fmt.Errorf("query event: %w", err)
	}
	return e, nil
}

// ListSessions returns the event's active sessions by start time
func (s *EventService) ListSessions(ctx context.Context, eventID string) ([]models.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.event_id, s.title, s.description, s.start_time, s.end_time,
		       s.session_type, s.track, s.room_id, r.name, s.is_active
		FROM event_session s
		LEFT JOIN room r ON r.id = s.room_id
		WHERE s.event_id = $1 AND s.is_active = TRUE
		ORDER BY s.start_time, s.title, s.id
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		var ss models.Session
		if err := rows.Scan(&ss.ID, &ss.EventID, &ss.Title, &ss.Description, &ss.StartTime, &ss.EndTime,
			&ss.SessionType, &ss.Track, &ss.RoomID, &ss.RoomName, &ss.IsActive); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, ss)
	}
	return sessions, rows.Err()
}

// CreateSession adds a session to the event. Organizers only.
func (s *EventService) CreateSession(ctx context.Context, userID, eventID string, req models.CreateSessionRequest) (models.Session, error) {
	if err := validateRequest(req); err != nil {
		return models.Session{}, err
	}
	if err := requireOrganizer(ctx, s.db, userID, eventID); err != nil {
		return models.Session{}, err
	}

	if req.RoomID != nil {
		ok, err := exists(ctx, s.db, `SELECT EXISTS(SELECT 1 FROM room WHERE id = $1 AND event_id = $2)`, *req.RoomID, eventID)
		if err != nil {
			return models.Session{}, fmt.Errorf("query room: %w", err)
		}
		if !ok {
			return models.Session{}, notFound("room")
		}
	}

	sessionType := req.SessionType
	if sessionType == "" {
		sessionType = "talk"
	}

	ss := models.Session{
		ID:          auth.NewID(),
		EventID:     eventID,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
		SessionType: sessionType,
		Track:       req.Track,
		RoomID:      req.RoomID,
		IsActive:    true,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO event_session (id, event_id, title, description, start_time, end_time, session_type, track, room_id, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, ss.ID, ss.EventID, ss.Title, ss.Description, ss.StartTime, ss.EndTime, ss.SessionType, ss.Track, ss.RoomID, true, now())
	if err != nil {
		return models.Session{}, writeErr(err, "insert session", "event")
	}

	return ss, nil
}

// RoleOf returns the caller's role in the event, or "" when none is recorded
func (s *EventService) RoleOf(ctx context.Context, userID, eventID string) (string, error) {
	return roleOf(ctx, s.db, userID, eventID)
}

func roleOf(ctx context.Context, q querier, userID, eventID string) (string, error) {
	var role string
	err := q.QueryRowContext(ctx, `
		SELECT role FROM event_role WHERE user_id = $1 AND event_id = $2
	`, userID, eventID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query event role: %w", err)
	}
	return role, nil
}

func isOrganizer(ctx context.Context, q querier, userID, eventID string) (bool, error) {
	role, err := roleOf(ctx, q, userID, eventID)
	if err != nil {
		return false, err
	}
	return role == models.RoleOrganizer || role == models.RoleAdmin, nil
}

// requireOrganizer reports non-organizers as not found so the existence of
// organizer resources is not leaked.
func requireOrganizer(ctx context.Context, q querier, userID, eventID string) error {
	ok, err := isOrganizer(ctx, q, userID, eventID)
	if err != nil {
		return err
	}
	if !ok {
		return notFound("resource")
	}
	return nil
}

func sessionInEvent(ctx context.Context, q querier, sessionID, eventID string) error {
	ok, err := exists(ctx, q, `
		SELECT EXISTS(SELECT 1 FROM event_session WHERE id = $1 AND event_id = $2)
	`, sessionID, eventID)
	if err != nil {
		return fmt.Errorf("query session: %w", err)
	}
	if !ok {
		return notFound("session")
	}
	return nil
}
