// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/mascon/cliparse"
	"github.com/danielhkuo/mascon/middleware"
	"github.com/danielhkuo/mascon/models"
	"github.com/danielhkuo/mascon/services"
)

type GamificationHandler struct {
	scope
	points *services.GamificationService
}

func NewGamificationHandler(db *sql.DB, _ cliparse.Config) *GamificationHandler {
	return &GamificationHandler{
		scope:  scope{events: services.NewEventService(db)},
		points: services.NewGamificationService(db),
	}
}

// Leaderboard handles GET /e/{slug}/leaderboard?limit=N
func (h *GamificationHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	event, _, ok := h.resolve(w, r)
	if !ok {
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			middleware.FieldErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer", "limit")
			return
		}
		limit = n
	}

	board, err := h.points.Leaderboard(r.Context(), event.ID, limit)
	if err != nil {
		writeError(w, r, err, "leaderboard")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, board)
}

// MyPoints handles GET /e/{slug}/points/me
func (h *GamificationHandler) MyPoints(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	total, err := h.points.UserTotal(r.Context(), id.UserID, event.ID)
	if err != nil {
		writeError(w, r, err, "points total")
		return
	}
	entries, err := h.points.History(r.Context(), id.UserID, event.ID)
	if err != nil {
		writeError(w, r, err, "points history")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PointsTotalResponse{
		UserID:  id.UserID,
		Points:  total,
		Entries: entries,
	})
}

// Award handles POST /e/{slug}/points
func (h *GamificationHandler) Award(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req models.AwardPointsRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.points.Award(r.Context(), id.UserID, event.ID, req)
	if err != nil {
		writeError(w, r, err, "award points")
		return
	}

	status := http.StatusCreated
	if resp.Duplicate {
		status = http.StatusOK
	}
	middleware.JSONResponse(w, status, resp)
}

// Adjust handles POST /e/{slug}/points/adjust (organizers)
func (h *GamificationHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req models.AdjustPointsRequest
	if !decode(w, r, &req) {
		return
	}

	entry, err := h.points.Adjust(r.Context(), id.UserID, event.ID, req)
	if err != nil {
		writeError(w, r, err, "adjust points")
		return
	}

	slog.Info("points adjusted",
		"event_id", event.ID,
		"organizer_id", id.UserID,
		"user_id", entry.UserID,
		"points", entry.Points,
	)
	middleware.JSONResponse(w, http.StatusCreated, entry)
}
