// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/mascon/auth"
	"github.com/danielhkuo/mascon/db"
	"github.com/danielhkuo/mascon/models"
)

const previewLength = 100

// MessagingService handles direct message threads between two users
type MessagingService struct {
	db *sql.DB
}

func NewMessagingService(conn *sql.DB) *MessagingService {
	return &MessagingService{db: conn}
}

func orderedPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// StartThread returns the thread between the caller and the participant,
// creating it if needed. Either side starting yields the same thread.
func (s *MessagingService) StartThread(ctx context.Context, userID, eventID string, req models.StartThreadRequest) (models.StartThreadResponse, error) {
	if err := validateRequest(req); err != nil {
		return models.StartThreadResponse{}, err
	}
	if req.ParticipantID == userID {
		return models.StartThreadResponse{}, invalid("participant_id", "cannot message yourself")
	}

	ok, err := userExists(ctx, s.db, req.ParticipantID)
	if err != nil {
		return models.StartThreadResponse{}, fmt.Errorf("query participant: %w", err)
	}
	if !ok {
		return models.StartThreadResponse{}, notFound("user")
	}

	low, high := orderedPair(userID, req.ParticipantID)
	id := auth.NewID()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO message_thread (id, event_id, creator_id, participant_id, user_low, user_high, is_system, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, eventID, userID, req.ParticipantID, low, high, false, now())

	if db.IsUniqueViolation(err) {
		var existing string
		if err := s.db.QueryRowContext(ctx, `
			SELECT id FROM message_thread WHERE event_id = $1 AND user_low = $2 AND user_high = $3
		`, eventID, low, high).Scan(&existing); err != nil {
			return models.StartThreadResponse{}, fmt.Errorf("query thread: %w", err)
		}
		return models.StartThreadResponse{Success: true, ThreadID: existing}, nil
	}
	if err != nil {
		return models.StartThreadResponse{}, writeErr(err, "insert thread", "user")
	}

	return models.StartThreadResponse{Success: true, ThreadID: id, Created: true}, nil
}

// threadFor loads a thread the user is a party to
func threadFor(ctx context.Context, q querier, userID, eventID, threadID string) (models.Thread, error) {
	var t models.Thread
	err := q.QueryRowContext(ctx, `
		SELECT id, event_id, creator_id, participant_id, is_system, system_type, last_message_at, created_at
		FROM message_thread WHERE id = $1 AND event_id = $2
	`, threadID, eventID).Scan(&t.ID, &t.EventID, &t.CreatorID, &t.ParticipantID, &t.IsSystem, &t.SystemType, &t.LastMessageAt, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Thread{}, notFound("thread")
	}
	if err != nil {
		return models.Thread{}, fmt.Errorf("query thread: %w", err)
	}
	if t.CreatorID != userID && t.ParticipantID != userID {
		return models.Thread{}, notFound("thread")
	}
	return t, nil
}

func otherParty(t models.Thread, userID string) string {
	if t.CreatorID == userID {
		return t.ParticipantID
	}
	return t.CreatorID
}

// SendMessage appends a message, bumps the thread activity and notifies the
// other party in one transaction
func (s *MessagingService) SendMessage(ctx context.Context, userID, eventID, threadID string, req models.SendMessageRequest) (models.Message, error) {
	if err := validateRequest(req); err != nil {
		return models.Message{}, err
	}

	msg := models.Message{
		ID:        auth.NewID(),
		ThreadID:  threadID,
		SenderID:  userID,
		Content:   req.Content,
	}

	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		t, err := threadFor(ctx, tx, userID, eventID, threadID)
		if err != nil {
			return err
		}

		sender, err := userSummary(ctx, tx, userID)
		if err != nil {
			return err
		}
		msg.SenderName = displayName(sender.Name)
		msg.CreatedAt = now()

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO message (id, thread_id, sender_id, content, is_read, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, msg.ID, msg.ThreadID, msg.SenderID, msg.Content, false, msg.CreatedAt); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE message_thread SET last_message_at = CASE
				WHEN last_message_at IS NULL OR last_message_at < $1 THEN $1
				ELSE last_message_at END
			WHERE id = $2
		`, msg.CreatedAt, threadID); err != nil {
			return fmt.Errorf("update thread: %w", err)
		}

		preview := truncate(msg.Content, previewLength)
		link := "/messages/" + threadID
		return notifyTx(ctx, tx, notice{
			UserID:  otherParty(t, userID),
			EventID: eventID,
			Type:    models.NotificationMessage,
			Title:   "New message from " + msg.SenderName,
			Content: &preview,
			Link:    &link,
		})
	})
	if err != nil {
		return models.Message{}, err
	}

	return msg, nil
}

// Open returns the thread with its messages oldest first, then marks the
// messages the viewer received as read
func (s *MessagingService) Open(ctx context.Context, userID, eventID, threadID string) (models.ThreadDetail, error) {
	t, err := threadFor(ctx, s.db, userID, eventID, threadID)
	if err != nil {
		return models.ThreadDetail{}, err
	}

	other, err := userSummary(ctx, s.db, otherParty(t, userID))
	if err != nil {
		return models.ThreadDetail{}, err
	}

	messages, err := s.messages(ctx, threadID)
	if err != nil {
		return models.ThreadDetail{}, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE message SET is_read = TRUE
		WHERE thread_id = $1 AND sender_id <> $2 AND is_read = FALSE
	`, threadID, userID)
	if err != nil {
		return models.ThreadDetail{}, fmt.Errorf("mark messages read: %w", err)
	}
	marked, err := res.RowsAffected()
	if err != nil {
		return models.ThreadDetail{}, err
	}

	return models.ThreadDetail{Thread: t, OtherUser: other, Messages: messages, MarkedRead: marked}, nil
}

func (s *MessagingService) messages(ctx context.Context, threadID string) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.thread_id, m.sender_id, u.name, m.content, m.is_read, m.created_at
		FROM message m
		JOIN app_user u ON u.id = m.sender_id
		WHERE m.thread_id = $1
		ORDER BY m.created_at ASC, m.id ASC
	`, threadID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.SenderID, &m.SenderName, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.SenderName = displayName(m.SenderName)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// ListThreads returns the user's threads in the event, most recently active
// first
func (s *MessagingService) ListThreads(ctx context.Context, userID, eventID string) ([]models.ThreadSummary, error) {
	threads, err := s.summaries(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	current := now()
	for i := range threads {
		preview, err := s.lastMessage(ctx, userID, threads[i].ID)
		if err != nil {
			return nil, err
		}
		threads[i].LastMessage = preview
		threads[i].LastActivityAgo = humanize.RelTime(threads[i].LastActivity, current, "ago", "from now")
	}

	return threads, nil
}

func (s *MessagingService) summaries(ctx context.Context, userID, eventID string) ([]models.ThreadSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.is_system, t.system_type, t.last_message_at, t.created_at,
		       (SELECT COUNT(*) FROM message m WHERE m.thread_id = t.id AND m.sender_id <> $2 AND m.is_read = FALSE),
		       `+userSummaryCols+`
		FROM message_thread t
		JOIN app_user u ON u.id = CASE WHEN t.creator_id = $2 THEN t.participant_id ELSE t.creator_id END
		WHERE t.event_id = $1 AND (t.creator_id = $2 OR t.participant_id = $2)
		ORDER BY COALESCE(t.last_message_at, t.created_at) DESC, t.id
	`, eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("query threads: %w", err)
	}
	defer rows.Close()

	threads := []models.ThreadSummary{}
	for rows.Next() {
		var (
			ts        models.ThreadSummary
			lastMsgAt sql.NullTime
			createdAt time.Time
		)
		dest := append([]any{&ts.ID, &ts.IsSystem, &ts.SystemType, &lastMsgAt, &createdAt, &ts.UnreadCount},
			scanUserSummary(&ts.OtherUser)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan thread: %w", err)
		}
		ts.LastActivity = createdAt
		if lastMsgAt.Valid && lastMsgAt.Time.After(createdAt) {
			ts.LastActivity = lastMsgAt.Time
		}
		threads = append(threads, ts)
	}
	return threads, rows.Err()
}

func (s *MessagingService) lastMessage(ctx context.Context, userID, threadID string) (*models.MessagePreview, error) {
	var p models.MessagePreview
	var senderID string
	err := s.db.QueryRowContext(ctx, `
		SELECT content, created_at, sender_id FROM message
		WHERE thread_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, threadID).Scan(&p.Content, &p.CreatedAt, &senderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query last message: %w", err)
	}
	p.Content = truncate(p.Content, previewLength)
	p.IsFromMe = senderID == userID
	return &p, nil
}
