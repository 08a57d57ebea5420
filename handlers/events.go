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

type EventHandler struct {
	scope
}

func NewEventHandler(db *sql.DB, _ cliparse.Config) *EventHandler {
	return &EventHandler{scope: scope{events: services.NewEventService(db)}}
}

// GetEvent handles GET /e/{slug}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, _, ok := h.resolve(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, event)
}

// ListSessions handles GET /e/{slug}/sessions
func (h *EventHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	event, _, ok := h.resolve(w, r)
	if !ok {
		return
	}

	sessions, err := h.events.ListSessions(r.Context(), event.ID)
	if err != nil {
		writeError(w, r, err, "list sessions")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sessions)
}

// CreateSession handles POST /e/{slug}/sessions (organizers)
func (h *EventHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req models.CreateSessionRequest
	if !decode(w, r, &req) {
		return
	}

	session, err := h.events.CreateSession(r.Context(), id.UserID, event.ID, req)
	if err != nil {
		writeError(w, r, err, "create session")
		return
	}

	slog.Info("session created", "event_id", event.ID, "session_id", session.ID)
	middleware.JSONResponse(w, http.StatusCreated, session)
}
