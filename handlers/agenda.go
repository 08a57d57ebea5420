// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/danielhkuo/mascon/cliparse"
	"github.com/danielhkuo/mascon/middleware"
	"github.com/danielhkuo/mascon/models"
	"github.com/danielhkuo/mascon/services"
)

type AgendaHandler struct {
	scope
	agenda *services.AgendaService
}

func NewAgendaHandler(db *sql.DB, _ cliparse.Config) *AgendaHandler {
	return &AgendaHandler{
		scope:  scope{events: services.NewEventService(db)},
		agenda: services.NewAgendaService(db),
	}
}

// List handles GET /e/{slug}/agenda?date=YYYY-MM-DD
func (h *AgendaHandler) List(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var day time.Time
	if d := r.URL.Query().Get("date"); d != "" {
		parsed, err := time.Parse(time.DateOnly, d)
		if err != nil {
			middleware.FieldErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD", "date")
			return
		}
		day = parsed
	}

	entries, err := h.agenda.List(r.Context(), id.UserID, event.ID, day)
	if err != nil {
		writeError(w, r, err, "list agenda")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, entries)
}

// Add handles POST /e/{slug}/agenda
func (h *AgendaHandler) Add(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req models.AddAgendaRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.agenda.AddSession(r.Context(), id.UserID, event.ID, req)
	if err != nil {
		writeError(w, r, err, "add agenda session")
		return
	}

	status := http.StatusCreated
	if resp.AlreadyPresent {
		status = http.StatusOK
	}
	middleware.JSONResponse(w, status, resp)
}

// Remove handles DELETE /e/{slug}/agenda?itemId=... or ?sessionId=...
func (h *AgendaHandler) Remove(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	itemID, sessionID := q.Get("itemId"), q.Get("sessionId")

	var err error
	switch {
	case itemID != "":
		err = h.agenda.RemoveItem(r.Context(), id.UserID, event.ID, itemID)
	case sessionID != "":
		err = h.agenda.RemoveSession(r.Context(), id.UserID, event.ID, sessionID)
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "itemId or sessionId is required")
		return
	}
	if err != nil {
		writeError(w, r, err, "remove agenda item")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// AddCustom handles POST /e/{slug}/agenda/custom
func (h *AgendaHandler) AddCustom(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req models.CreateCustomActivityRequest
	if !decode(w, r, &req) {
		return
	}

	entry, err := h.agenda.CreateCustom(r.Context(), id.UserID, event.ID, req)
	if err != nil {
		writeError(w, r, err, "create custom activity")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, entry)
}
