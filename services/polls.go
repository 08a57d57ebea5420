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

// PollService tracks live polls and their votes
type PollService struct {
	db *sql.DB
}

func NewPollService(conn *sql.DB) *PollService {
	return &PollService{db: conn}
}

// Vote records the user's choice. Each user votes once per poll; a repeat
// vote, for the same or a different option, reports the original choice
// with Recorded false.
func (s *PollService) Vote(ctx context.Context, userID, eventID, pollID string, req models.VoteRequest) (models.VoteResponse, error) {
	if err := validateRequest(req); err != nil {
		return models.VoteResponse{}, err
	}

	var isActive bool
	err := s.db.QueryRowContext(ctx, `
		SELECT is_active FROM poll WHERE id = $1 AND event_id = $2
	`, pollID, eventID).Scan(&isActive)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VoteResponse{}, notFound("poll")
	}
	if err != nil {
		return models.VoteResponse{}, fmt.Errorf("query poll: %w", err)
	}

	ok, err := exists(ctx, s.db, `
		SELECT EXISTS(SELECT 1 FROM poll_option WHERE id = $1 AND poll_id = $2)
	`, req.OptionID, pollID)
	if err != nil {
		return models.VoteResponse{}, fmt.Errorf("query option: %w", err)
	}
	if !ok {
		return models.VoteResponse{}, notFound("option")
	}

	if !isActive {
		return models.VoteResponse{}, conflict("Poll is not active")
	}

	var count int
	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO poll_vote (id, poll_id, option_id, user_id, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, auth.NewID(), pollID, req.OptionID, userID, now())
		if db.IsUniqueViolation(err) {
			return errDuplicate
		}
		if err != nil {
			return writeErr(err, "insert vote", "user")
		}

		if err := tx.QueryRowContext(ctx, `
			UPDATE poll_option SET votes_count = votes_count + 1 WHERE id = $1 RETURNING votes_count
		`, req.OptionID).Scan(&count); err != nil {
			return fmt.Errorf("increment votes: %w", err)
		}

		_, err = awardTx(ctx, tx, userID, eventID, ActionPollVote, ActionPollVote+":"+pollID)
		return err
	})

	if errors.Is(err, errDuplicate) {
		return s.priorVote(ctx, userID, pollID)
	}
	if err != nil {
		return models.VoteResponse{}, err
	}

	return models.VoteResponse{Success: true, Recorded: true, OptionID: req.OptionID, VotesCount: count}, nil
}

func (s *PollService) priorVote(ctx context.Context, userID, pollID string) (models.VoteResponse, error) {
	resp := models.VoteResponse{Success: true}
	err := s.db.QueryRowContext(ctx, `
		SELECT o.id, o.votes_count
		FROM poll_vote v
		JOIN poll_option o ON o.id = v.option_id
		WHERE v.poll_id = $1 AND v.user_id = $2
	`, pollID, userID).Scan(&resp.OptionID, &resp.VotesCount)
	if err != nil {
		return models.VoteResponse{}, fmt.Errorf("query prior vote: %w", err)
	}
	return resp, nil
}

// ListPolls returns the event's active polls newest first, with the caller's
// choice on each
func (s *PollService) ListPolls(ctx context.Context, userID, eventID string) ([]models.Poll, error) {
	polls, err := s.activePolls(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	// Options are loaded after the poll rows are closed; sqlite runs on a
	// single connection.
	for i := range polls {
		opts, err := pollOptions(ctx, s.db, polls[i].ID)
		if err != nil {
			return nil, err
		}
		polls[i].Options = opts
		for _, o := range opts {
			polls[i].TotalVotes += o.VotesCount
		}
	}

	return polls, nil
}

func (s *PollService) activePolls(ctx context.Context, userID, eventID string) ([]models.Poll, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.event_id, p.session_id, p.question, p.is_active, p.created_at, v.option_id
		FROM poll p
		LEFT JOIN poll_vote v ON v.poll_id = p.id AND v.user_id = $2
		WHERE p.event_id = $1 AND p.is_active = TRUE
		ORDER BY p.created_at DESC, p.id
	`, eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("query polls: %w", err)
	}
	defer rows.Close()

	polls := []models.Poll{}
	for rows.Next() {
		var p models.Poll
		if err := rows.Scan(&p.ID, &p.EventID, &p.SessionID, &p.Question, &p.IsActive, &p.CreatedAt, &p.MyOptionID); err != nil {
			return nil, fmt.Errorf("scan poll: %w", err)
		}
		polls = append(polls, p)
	}
	return polls, rows.Err()
}

func pollOptions(ctx context.Context, q querier, pollID string) ([]models.PollOption, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, poll_id, text, position, votes_count
		FROM poll_option WHERE poll_id = $1
		ORDER BY position, id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()

	options := []models.PollOption{}
	for rows.Next() {
		var o models.PollOption
		if err := rows.Scan(&o.ID, &o.PollID, &o.Text, &o.Position, &o.VotesCount); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

// CreatePoll adds an active poll with its options. Organizers only.
func (s *PollService) CreatePoll(ctx context.Context, userID, eventID string, req models.CreatePollRequest) (models.Poll, error) {
	if err := validateRequest(req); err != nil {
		return models.Poll{}, err
	}
	if err := requireOrganizer(ctx, s.db, userID, eventID); err != nil {
		return models.Poll{}, err
	}
	if req.SessionID != nil {
		if err := sessionInEvent(ctx, s.db, *req.SessionID, eventID); err != nil {
			return models.Poll{}, err
		}
	}

	poll := models.Poll{
		ID:        auth.NewID(),
		EventID:   eventID,
		SessionID: req.SessionID,
		Question:  req.Question,
		IsActive:  true,
		CreatedAt: now(),
		Options:   make([]models.PollOption, 0, len(req.Options)),
	}

	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO poll (id, event_id, session_id, question, is_active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, poll.ID, poll.EventID, poll.SessionID, poll.Question, true, poll.CreatedAt); err != nil {
			return fmt.Errorf("insert poll: %w", err)
		}

		for i, text := range req.Options {
			opt := models.PollOption{ID: auth.NewID(), PollID: poll.ID, Text: text, Position: i}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO poll_option (id, poll_id, text, position, votes_count)
				VALUES ($1, $2, $3, $4, 0)
			`, opt.ID, opt.PollID, opt.Text, opt.Position); err != nil {
				return fmt.Errorf("insert option: %w", err)
			}
			poll.Options = append(poll.Options, opt)
		}
		return nil
	})
	if err != nil {
		return models.Poll{}, err
	}

	return poll, nil
}

// SetActive opens or closes a poll. Organizers only.
func (s *PollService) SetActive(ctx context.Context, userID, eventID, pollID string, active bool) error {
	if err := requireOrganizer(ctx, s.db, userID, eventID); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE poll SET is_active = $1 WHERE id = $2 AND event_id = $3
	`, active, pollID, eventID)
	if err != nil {
		return fmt.Errorf("update poll: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("poll")
	}
	return nil
}
