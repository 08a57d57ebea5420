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

type MessagingHandler struct {
	scope
	messages *services.MessagingService
}

func NewMessagingHandler(db *sql.DB, _ cliparse.Config) *MessagingHandler {
	return &MessagingHandler{
		scope:    scope{events: services.NewEventService(db)},
		messages: services.NewMessagingService(db),
	}
}

// ListThreads handles GET /e/{slug}/threads
func (h *MessagingHandler) ListThreads(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	threads, err := h.messages.ListThreads(r.Context(), id.UserID, event.ID)
	if err != nil {
		writeError(w, r, err, "list threads")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, threads)
}

// StartThread handles POST /e/{slug}/threads
func (h *MessagingHandler) StartThread(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req models.StartThreadRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.messages.StartThread(r.Context(), id.UserID, event.ID, req)
	if err != nil {
		writeError(w, r, err, "start thread")
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	middleware.JSONResponse(w, status, resp)
}

// OpenThread handles GET /e/{slug}/threads/{threadId}
func (h *MessagingHandler) OpenThread(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	detail, err := h.messages.Open(r.Context(), id.UserID, event.ID, r.PathValue("threadId"))
	if err != nil {
		writeError(w, r, err, "open thread")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, detail)
}

// SendMessage handles POST /e/{slug}/threads/{threadId}/messages
func (h *MessagingHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req models.SendMessageRequest
	if !decode(w, r, &req) {
		return
	}

	msg, err := h.messages.SendMessage(r.Context(), id.UserID, event.ID, r.PathValue("threadId"), req)
	if err != nil {
		writeError(w, r, err, "send message")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, msg)
}
