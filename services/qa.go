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

// QAService handles session questions and their upvotes
type QAService struct {
	db *sql.DB
}

func NewQAService(conn *sql.DB) *QAService {
	return &QAService{db: conn}
}

// Ask posts a question to a session and awards question_asked points
func (s *QAService) Ask(ctx context.Context, userID, eventID, sessionID string, req models.AskQuestionRequest) (models.Question, error) {
	if err := validateRequest(req); err != nil {
		return models.Question{}, err
	}
	if err := sessionInEvent(ctx, s.db, sessionID, eventID); err != nil {
		return models.Question{}, err
	}

	q := models.Question{
		ID:          auth.NewID(),
		SessionID:   sessionID,
		Content:     req.Content,
		IsAnonymous: req.IsAnonymous,
		CreatedAt:   now(),
		UserID:      userID,
	}

	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO qa_question (id, session_id, user_id, content, is_anonymous, is_answered, votes_count, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, 0, $7)
		`, q.ID, q.SessionID, q.UserID, q.Content, q.IsAnonymous, false, q.CreatedAt)
		if err != nil {
			return writeErr(err, "insert question", "user")
		}
		_, err = awardTx(ctx, tx, userID, eventID, ActionQuestionAsked, ActionQuestionAsked+":"+q.ID)
		return err
	})
	if err != nil {
		return models.Question{}, err
	}

	author, err := userSummary(ctx, s.db, userID)
	if err != nil {
		return models.Question{}, err
	}
	q.Author = &author

	return q, nil
}

// Upvote adds the caller's vote to a question. Repeat upvotes are no-ops.
func (s *QAService) Upvote(ctx context.Context, userID, eventID, questionID string) (models.UpvoteResponse, error) {
	if err := questionInEvent(ctx, s.db, questionID, eventID); err != nil {
		return models.UpvoteResponse{}, err
	}

	var count int
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO qa_vote (question_id, user_id, created_at) VALUES ($1, $2, $3)
		`, questionID, userID, now())
		if db.IsUniqueViolation(err) {
			return errDuplicate
		}
		if err != nil {
			return writeErr(err, "insert question vote", "user")
		}

		return tx.QueryRowContext(ctx, `
			UPDATE qa_question SET votes_count = votes_count + 1 WHERE id = $1 RETURNING votes_count
		`, questionID).Scan(&count)
	})

	if errors.Is(err, errDuplicate) {
		if err := s.db.QueryRowContext(ctx, `
			SELECT votes_count FROM qa_question WHERE id = $1
		`, questionID).Scan(&count); err != nil {
			return models.UpvoteResponse{}, fmt.Errorf("query votes: %w", err)
		}
		return models.UpvoteResponse{Success: true, VotesCount: count}, nil
	}
	if err != nil {
		return models.UpvoteResponse{}, fmt.Errorf("upvote: %w", err)
	}

	return models.UpvoteResponse{Success: true, Recorded: true, VotesCount: count}, nil
}

// List returns a session's questions, most upvoted first. Authors of
// anonymous questions are hidden unless the viewer wrote the question or
// organizes the event.
func (s *QAService) List(ctx context.Context, viewerID, eventID, sessionID string) ([]models.Question, error) {
	if err := sessionInEvent(ctx, s.db, sessionID, eventID); err != nil {
		return nil, err
	}
	organizer, err := isOrganizer(ctx, s.db, viewerID, eventID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT q.id, q.session_id, q.content, q.is_anonymous, q.is_answered, q.votes_count, q.created_at, `+userSummaryCols+`
		FROM qa_question q
		JOIN app_user u ON u.id = q.user_id
		WHERE q.session_id = $1
		ORDER BY q.votes_count DESC, q.created_at DESC, q.id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		var q models.Question
		var author models.UserSummary
		dest := append([]any{&q.ID, &q.SessionID, &q.Content, &q.IsAnonymous, &q.IsAnswered, &q.VotesCount, &q.CreatedAt},
			scanUserSummary(&author)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.UserID = author.ID

		if !q.IsAnonymous || organizer || author.ID == viewerID {
			q.Author = &author
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// SetAnswered flags a question as answered or not. Organizers only.
func (s *QAService) SetAnswered(ctx context.Context, userID, eventID, questionID string, answered bool) error {
	if err := requireOrganizer(ctx, s.db, userID, eventID); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE qa_question SET is_answered = $1
		WHERE id = $2 AND session_id IN (SELECT id FROM event_session WHERE event_id = $3)
	`, answered, questionID, eventID)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("question")
	}
	return nil
}

func questionInEvent(ctx context.Context, q querier, questionID, eventID string) error {
	ok, err := exists(ctx, q, `
		SELECT EXISTS(
			SELECT 1 FROM qa_question q
			JOIN event_session s ON s.id = q.session_id
			WHERE q.id = $1 AND s.event_id = $2
		)
	`, questionID, eventID)
	if err != nil {
		return fmt.Errorf("query question: %w", err)
	}
	if !ok {
		return notFound("question")
	}
	return nil
}
