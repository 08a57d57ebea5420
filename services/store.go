// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/mascon/models"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// now is truncated to microseconds so values survive a Postgres round trip
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Anonymous"
	}
	return name
}

// userSummaryCols selects a UserSummary from alias u
const userSummaryCols = `u.id, u.name, u.image, u.company`

func scanUserSummary(dest *models.UserSummary) []any {
	return []any{&dest.ID, &dest.Name, &dest.Image, &dest.Company}
}

// exists runs a SELECT EXISTS(...) query
func exists(ctx context.Context, q querier, query string, args ...any) (bool, error) {
	var ok bool
	if err := q.QueryRowContext(ctx, query, args...).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func userExists(ctx context.Context, q querier, userID string) (bool, error) {
	return exists(ctx, q, `SELECT EXISTS(SELECT 1 FROM app_user WHERE id = $1)`, userID)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func userSummary(ctx context.Context, q querier, userID string) (models.UserSummary, error) {
	var u models.UserSummary
	err := q.QueryRowContext(ctx, `
		SELECT `+userSummaryCols+` FROM app_user u WHERE u.id = $1
	`, userID).Scan(scanUserSummary(&u)...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserSummary{}, notFound("user")
	}
	if err != nil {
		return models.UserSummary{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}
