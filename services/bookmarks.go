// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/mascon/auth"
	"github.com/danielhkuo/mascon/db"
	"github.com/danielhkuo/mascon/models"
)

type BookmarkService struct {
	db *sql.DB
}

func NewBookmarkService(conn *sql.DB) *BookmarkService {
	return &BookmarkService{db: conn}
}

// Toggle adds the bookmark, or removes it if present
func (s *BookmarkService) Toggle(ctx context.Context, userID string, req models.ToggleBookmarkRequest) (models.BookmarkResponse, error) {
	if err := validateRequest(req); err != nil {
		return models.BookmarkResponse{}, err
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM bookmark WHERE user_id = $1 AND target_type = $2 AND target_id = $3
	`, userID, req.TargetType, req.TargetID)
	if err != nil {
		return models.BookmarkResponse{}, fmt.Errorf("delete bookmark: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.BookmarkResponse{}, err
	}
	if n > 0 {
		return models.BookmarkResponse{Success: true, Bookmarked: false}, nil
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO bookmark (id, user_id, target_type, target_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, auth.NewID(), userID, req.TargetType, req.TargetID, now())
	if err != nil && !db.IsUniqueViolation(err) {
		return models.BookmarkResponse{}, writeErr(err, "insert bookmark", "user")
	}

	return models.BookmarkResponse{Success: true, Bookmarked: true}, nil
}

// List returns the user's bookmarks newest first, optionally of one type
func (s *BookmarkService) List(ctx context.Context, userID, targetType string) ([]models.Bookmark, error) {
	query := `
		SELECT target_type, target_id, created_at FROM bookmark
		WHERE user_id = $1`
	args := []any{userID}
	if targetType != "" {
		query += ` AND target_type = $2`
		args = append(args, targetType)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := []models.Bookmark{}
	for rows.Next() {
		var b models.Bookmark
		if err := rows.Scan(&b.TargetType, &b.TargetID, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}
