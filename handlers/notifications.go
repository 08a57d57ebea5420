// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/mascon/cliparse"
	"github.com/danielhkuo/mascon/middleware"
	"github.com/danielhkuo/mascon/services"
)

type NotificationHandler struct {
	scope
	notifications *services.NotificationService
}

func NewNotificationHandler(db *sql.DB, _ cliparse.Config) *NotificationHandler {
	return &NotificationHandler{
		scope:         scope{events: services.NewEventService(db)},
		notifications: services.NewNotificationService(db),
	}
}

// List handles GET /e/{slug}/notifications. Viewing marks them read.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	list, err := h.notifications.List(r.Context(), id.UserID, event.ID)
	if err != nil {
		writeError(w, r, err, "list notifications")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, list)
}

// Unread handles GET /notifications/unread
func (h *NotificationHandler) Unread(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	n, err := h.notifications.UnreadCount(r.Context(), id.UserID)
	if err != nil {
		writeError(w, r, err, "unread notifications")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, map[string]int{"unread": n})
}
