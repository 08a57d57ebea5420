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

type BookmarkHandler struct {
	bookmarks *services.BookmarkService
}

func NewBookmarkHandler(db *sql.DB, _ cliparse.Config) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: services.NewBookmarkService(db)}
}

// List handles GET /bookmarks?type=...
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	bookmarks, err := h.bookmarks.List(r.Context(), id.UserID, r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, r, err, "list bookmarks")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, bookmarks)
}

// Toggle handles POST /bookmarks
func (h *BookmarkHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var req models.ToggleBookmarkRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.bookmarks.Toggle(r.Context(), id.UserID, req)
	if err != nil {
		writeError(w, r, err, "toggle bookmark")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}
