// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/mascon/db"
	"github.com/danielhkuo/mascon/models"
)

// ProfileService reads and edits user profiles
type ProfileService struct {
	db *sql.DB
}

func NewProfileService(conn *sql.DB) *ProfileService {
	return &ProfileService{db: conn}
}

const profileCols = `u.id, u.name, u.email, u.image, u.title, u.company, u.bio, u.phone,
	u.linkedin, u.twitter, u.website, u.share_email, u.share_phone`

func scanProfile(p *models.Profile) []any {
	return []any{&p.ID, &p.Name, &p.Email, &p.Image, &p.Title, &p.Company, &p.Bio, &p.Phone,
		&p.LinkedIn, &p.Twitter, &p.Website, &p.ShareEmail, &p.SharePhone}
}

// redact hides contact details the owner has not chosen to share
func redact(p models.Profile) models.Profile {
	if !p.ShareEmail {
		p.Email = nil
	}
	if !p.SharePhone {
		p.Phone = nil
	}
	return p
}

func loadProfile(ctx context.Context, q querier, userID string) (models.Profile, error) {
	var p models.Profile
	err := q.QueryRowContext(ctx, `SELECT `+profileCols+` FROM app_user u WHERE u.id = $1`, userID).Scan(scanProfile(&p)...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, notFound("user")
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("query profile: %w", err)
	}
	return p, nil
}

// Get returns another user's profile with private fields redacted
func (s *ProfileService) Get(ctx context.Context, userID string) (models.Profile, error) {
	p, err := loadProfile(ctx, s.db, userID)
	if err != nil {
		return models.Profile{}, err
	}
	return redact(p), nil
}

// Me returns the caller's own profile unredacted
func (s *ProfileService) Me(ctx context.Context, userID string) (models.Profile, error) {
	return loadProfile(ctx, s.db, userID)
}

// Update replaces the caller's editable profile fields
func (s *ProfileService) Update(ctx context.Context, userID string, req models.UpdateProfileRequest) (models.Profile, error) {
	if err := validateRequest(req); err != nil {
		return models.Profile{}, err
	}
	if err := updateProfile(ctx, s.db, userID, req); err != nil {
		return models.Profile{}, err
	}
	return loadProfile(ctx, s.db, userID)
}

// UpdateInEvent is Update made from an event page. The first update that
// leaves the profile complete awards profile_complete points in that event.
func (s *ProfileService) UpdateInEvent(ctx context.Context, userID, eventID string, req models.UpdateProfileRequest) (models.Profile, bool, error) {
	if err := validateRequest(req); err != nil {
		return models.Profile{}, false, err
	}

	var awarded bool
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := updateProfile(ctx, tx, userID, req); err != nil {
			return err
		}
		if !profileComplete(req) {
			return nil
		}
		var err error
		awarded, err = awardTx(ctx, tx, userID, eventID, ActionProfileComplete, ActionProfileComplete)
		return err
	})
	if err != nil {
		return models.Profile{}, false, err
	}

	p, err := loadProfile(ctx, s.db, userID)
	return p, awarded, err
}

func updateProfile(ctx context.Context, q querier, userID string, req models.UpdateProfileRequest) error {
	res, err := q.ExecContext(ctx, `
		UPDATE app_user SET name = $1, title = $2, company = $3, bio = $4, phone = $5,
			linkedin = $6, twitter = $7, website = $8, share_email = $9, share_phone = $10, updated_at = $11
		WHERE id = $12
	`, req.Name, req.Title, req.Company, req.Bio, req.Phone, req.LinkedIn, req.Twitter, req.Website,
		req.ShareEmail, req.SharePhone, now(), userID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("user")
	}
	return nil
}

// EnsureUser creates the user if missing and returns the stored profile.
// Used by demo login.
func (s *ProfileService) EnsureUser(ctx context.Context, id, email, name string) (models.Profile, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_user (id, email, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (id) DO NOTHING
	`, id, email, name, now())
	if err != nil {
		return models.Profile{}, fmt.Errorf("insert user: %w", err)
	}
	return loadProfile(ctx, s.db, id)
}

// profileComplete requires name, title, company and bio
func profileComplete(req models.UpdateProfileRequest) bool {
	return strings.TrimSpace(req.Name) != "" && filled(req.Title) && filled(req.Company) && filled(req.Bio)
}

func filled(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
