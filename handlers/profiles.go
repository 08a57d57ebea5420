// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/mascon/cliparse"
	"github.com/danielhkuo/mascon/middleware"
	"github.com/danielhkuo/mascon/models"
	"github.com/danielhkuo/mascon/services"
)

type ProfileHandler struct {
	scope
	profiles *services.ProfileService
}

func NewProfileHandler(db *sql.DB, _ cliparse.Config) *ProfileHandler {
	return &ProfileHandler{
		scope:    scope{events: services.NewEventService(db)},
		profiles: services.NewProfileService(db),
	}
}

// GetUser handles GET /users/{id}
func (h *ProfileHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r); !ok {
		return
	}

	p, err := h.profiles.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "get profile")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, p)
}

// Me handles GET /me
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	p, err := h.profiles.Me(r.Context(), id.UserID)
	if err != nil {
		writeError(w, r, err, "get own profile")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, p)
}

// UpdateMe handles PUT /me
func (h *ProfileHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if !decode(w, r, &req) {
		return
	}

	p, err := h.profiles.Update(r.Context(), id.UserID, req)
	if err != nil {
		writeError(w, r, err, "update profile")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, p)
}

// UpdateInEvent handles PUT /e/{slug}/me
func (h *ProfileHandler) UpdateInEvent(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if !decode(w, r, &req) {
		return
	}

	p, awarded, err := h.profiles.UpdateInEvent(r.Context(), id.UserID, event.ID, req)
	if err != nil {
		writeError(w, r, err, "update profile in event")
		return
	}
	if awarded {
		slog.Info("profile completed", "user_id", id.UserID, "event_id", event.ID)
	}
	middleware.JSONResponse(w, http.StatusOK, p)
}
