// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/mascon/auth"
	"github.com/danielhkuo/mascon/models"
)

const notificationPageSize = 50

// NotificationService is the per-user inbox
type NotificationService struct {
	db *sql.DB
}

func NewNotificationService(conn *sql.DB) *NotificationService {
	return &NotificationService{db: conn}
}

type notice struct {
	UserID  string
	EventID string
	Type    string
	Title   string
	Content *string
	Link    *string
}

func notifyTx(ctx context.Context, q querier, n notice) error {
	var eventID any
	if n.EventID != "" {
		eventID = n.EventID
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO notification (id, user_id, event_id, type, title, content, link, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, auth.NewID(), n.UserID, eventID, n.Type, n.Title, n.Content, n.Link, false, now())
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// List returns the newest notifications for the event and then marks the
// unread ones read. The returned rows keep their unread flag.
func (s *NotificationService) List(ctx context.Context, userID, eventID string) (models.NotificationList, error) {
	list, err := s.page(ctx, userID, eventID)
	if err != nil {
		return models.NotificationList{}, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE notification SET is_read = TRUE
		WHERE user_id = $1 AND (event_id = $2 OR event_id IS NULL) AND is_read = FALSE
	`, userID, eventID)
	if err != nil {
		return models.NotificationList{}, fmt.Errorf("mark notifications read: %w", err)
	}
	marked, err := res.RowsAffected()
	if err != nil {
		return models.NotificationList{}, err
	}

	return models.NotificationList{Notifications: list, MarkedRead: marked}, nil
}

func (s *NotificationService) page(ctx context.Context, userID, eventID string) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, title, content, link, is_read, created_at
		FROM notification
		WHERE user_id = $1 AND (event_id = $2 OR event_id IS NULL)
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, userID, eventID, notificationPageSize)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	list := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Content, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// UnreadCount counts unread notifications across all events
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM notification WHERE user_id = $1 AND is_read = FALSE
	`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return n, nil
}
