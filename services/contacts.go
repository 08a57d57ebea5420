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

// ContactService handles contact exchange and following people
type ContactService struct {
	db *sql.DB
}

func NewContactService(conn *sql.DB) *ContactService {
	return &ContactService{db: conn}
}

func (s *ContactService) checkOther(ctx context.Context, callerID, otherID, field string) error {
	if otherID == callerID {
		return invalid(field, "cannot use your own id")
	}
	ok, err := userExists(ctx, s.db, otherID)
	if err != nil {
		return fmt.Errorf("query user: %w", err)
	}
	if !ok {
		return notFound("user")
	}
	return nil
}

// Save stores the contact's profile for the caller. The contact is the
// giver and the caller the receiver. Saving twice returns the first row.
func (s *ContactService) Save(ctx context.Context, callerID, eventID string, req models.SaveContactRequest) (models.SaveContactResponse, error) {
	if err := validateRequest(req); err != nil {
		return models.SaveContactResponse{}, err
	}
	if err := s.checkOther(ctx, callerID, req.ContactUserID, "contact_user_id"); err != nil {
		return models.SaveContactResponse{}, err
	}

	id := auth.NewID()
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO contact_exchange (id, giver_id, receiver_id, event_id, note, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, id, req.ContactUserID, callerID, eventID, req.Note, now())
		if db.IsUniqueViolation(err) {
			return errDuplicate
		}
		if err != nil {
			return writeErr(err, "insert contact", "user")
		}
		return s.onExchanged(ctx, tx, req.ContactUserID, callerID, eventID)
	})

	if errors.Is(err, errDuplicate) {
		existing, err := s.exchangeID(ctx, req.ContactUserID, callerID, eventID)
		if err != nil {
			return models.SaveContactResponse{}, err
		}
		return models.SaveContactResponse{Success: true, ID: existing, Message: "Contact already saved"}, nil
	}
	if err != nil {
		return models.SaveContactResponse{}, err
	}

	return models.SaveContactResponse{Success: true, ID: id, Created: true}, nil
}

// onExchanged awards the receiver and tells the giver their card was saved
func (s *ContactService) onExchanged(ctx context.Context, tx *sql.Tx, giverID, receiverID, eventID string) error {
	if _, err := awardTx(ctx, tx, receiverID, eventID, ActionContactExchange, ActionContactExchange+":"+giverID); err != nil {
		return err
	}
	receiver, err := userSummary(ctx, tx, receiverID)
	if err != nil {
		return err
	}
	return notifyTx(ctx, tx, notice{
		UserID:  giverID,
		EventID: eventID,
		Type:    models.NotificationContact,
		Title:   displayName(receiver.Name) + " saved your contact",
	})
}

func (s *ContactService) exchangeID(ctx context.Context, giverID, receiverID, eventID string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM contact_exchange WHERE event_id = $1 AND giver_id = $2 AND receiver_id = $3
	`, eventID, giverID, receiverID).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("query contact: %w", err)
	}
	return id, nil
}

// ExchangeMutual saves each user's contact for the other in one transaction.
// Directions that already exist are kept.
func (s *ContactService) ExchangeMutual(ctx context.Context, callerID, eventID string, req models.SaveContactRequest) (models.MutualContactResponse, error) {
	if err := validateRequest(req); err != nil {
		return models.MutualContactResponse{}, err
	}
	otherID := req.ContactUserID
	if err := s.checkOther(ctx, callerID, otherID, "contact_user_id"); err != nil {
		return models.MutualContactResponse{}, err
	}

	created := 0
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		directions := []struct {
			giver, receiver string
			note            *string
		}{
			{callerID, otherID, nil},
			{otherID, callerID, req.Note},
		}
		for _, d := range directions {
			res, err := tx.ExecContext(ctx, `
				INSERT INTO contact_exchange (id, giver_id, receiver_id, event_id, note, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (event_id, giver_id, receiver_id) DO NOTHING
			`, auth.NewID(), d.giver, d.receiver, eventID, d.note, now())
			if err != nil {
				return writeErr(err, "insert contact", "user")
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				continue
			}
			created++
			if err := s.onExchanged(ctx, tx, d.giver, d.receiver, eventID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.MutualContactResponse{}, err
	}

	given, err := s.exchangeID(ctx, callerID, otherID, eventID)
	if err != nil {
		return models.MutualContactResponse{}, err
	}
	saved, err := s.exchangeID(ctx, otherID, callerID, eventID)
	if err != nil {
		return models.MutualContactResponse{}, err
	}

	return models.MutualContactResponse{Success: true, GivenID: given, SavedID: saved, Created: created}, nil
}

// List returns contacts the caller saved in the event, newest first
func (s *ContactService) List(ctx context.Context, callerID, eventID string) ([]models.Contact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.note, c.created_at, `+profileCols+`
		FROM contact_exchange c
		JOIN app_user u ON u.id = c.giver_id
		WHERE c.receiver_id = $1 AND c.event_id = $2
		ORDER BY c.created_at DESC, c.id DESC
	`, callerID, eventID)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(append([]any{&c.ID, &c.Note, &c.CreatedAt}, scanProfile(&c.User)...)...); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		c.User = redact(c.User)
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// ToggleUserFollow follows the user, or unfollows if already following
func (s *ContactService) ToggleUserFollow(ctx context.Context, followerID, eventID string, req models.FollowUserRequest) (models.FollowResponse, error) {
	if err := validateRequest(req); err != nil {
		return models.FollowResponse{}, err
	}
	if err := s.checkOther(ctx, followerID, req.UserID, "user_id"); err != nil {
		return models.FollowResponse{}, err
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM user_follow WHERE follower_id = $1 AND following_id = $2
	`, followerID, req.UserID)
	if err != nil {
		return models.FollowResponse{}, fmt.Errorf("delete follow: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.FollowResponse{}, err
	}
	if n > 0 {
		return models.FollowResponse{Success: true, Following: false}, nil
	}

	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO user_follow (follower_id, following_id, created_at) VALUES ($1, $2, $3)
		`, followerID, req.UserID, now())
		if db.IsUniqueViolation(err) {
			return errDuplicate
		}
		if err != nil {
			return writeErr(err, "insert follow", "user")
		}

		follower, err := userSummary(ctx, tx, followerID)
		if err != nil {
			return err
		}
		return notifyTx(ctx, tx, notice{
			UserID:  req.UserID,
			EventID: eventID,
			Type:    models.NotificationFollow,
			Title:   displayName(follower.Name) + " started following you",
		})
	})
	// A concurrent request already created the follow.
	if errors.Is(err, errDuplicate) {
		return models.FollowResponse{Success: true, Following: true}, nil
	}
	if err != nil {
		return models.FollowResponse{}, err
	}

	return models.FollowResponse{Success: true, Following: true}, nil
}
