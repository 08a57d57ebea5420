// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/mascon/cliparse"
	"github.com/danielhkuo/mascon/middleware"
	"github.com/danielhkuo/mascon/models"
	"github.com/danielhkuo/mascon/services"
)

type NoteHandler struct {
	scope
	notes *services.NoteService
}

func NewNoteHandler(db *sql.DB, _ cliparse.Config) *NoteHandler {
	return &NoteHandler{
		scope: scope{events: services.NewEventService(db)},
		notes: services.NewNoteService(db),
	}
}

// List handles GET /e/{slug}/notes
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	notes, err := h.notes.List(r.Context(), id.UserID, event.ID)
	if err != nil {
		writeError(w, r, err, "list notes")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, notes)
}

// Put handles PUT /e/{slug}/notes
func (h *NoteHandler) Put(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req models.PutNoteRequest
	if !decode(w, r, &req) {
		return
	}

	note, err := h.notes.Put(r.Context(), id.UserID, event.ID, req)
	if err != nil {
		writeError(w, r, err, "put note")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, note)
}
