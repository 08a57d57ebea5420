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

type CommunityHandler struct {
	scope
	community *services.CommunityService
}

func NewCommunityHandler(db *sql.DB, _ cliparse.Config) *CommunityHandler {
	return &CommunityHandler{
		scope:     scope{events: services.NewEventService(db)},
		community: services.NewCommunityService(db),
	}
}

// ListCategories handles GET /e/{slug}/community
func (h *CommunityHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	event, _, ok := h.resolve(w, r)
	if !ok {
		return
	}

	categories, err := h.community.ListCategories(r.Context(), event.ID)
	if err != nil {
		writeError(w, r, err, "list categories")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, categories)
}

// CreateCategory handles POST /e/{slug}/community/categories (organizers)
func (h *CommunityHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req models.CreateCategoryRequest
	if !decode(w, r, &req) {
		return
	}

	c, err := h.community.CreateCategory(r.Context(), id.UserID, event.ID, req)
	if err != nil {
		writeError(w, r, err, "create category")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, c)
}

// CreateTopic handles POST /e/{slug}/community
func (h *CommunityHandler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req models.CreateTopicRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.community.CreateTopic(r.Context(), id.UserID, event.ID, req)
	if err != nil {
		writeError(w, r, err, "create topic")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// GetThread handles GET /e/{slug}/community/{threadId}
func (h *CommunityHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	detail, err := h.community.GetThread(r.Context(), id.UserID, event.ID, r.PathValue("threadId"))
	if err != nil {
		writeError(w, r, err, "get topic thread")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, detail)
}

// Reply handles POST /e/{slug}/community/{threadId}/posts
func (h *CommunityHandler) Reply(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req models.ReplyRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.community.Reply(r.Context(), id.UserID, event.ID, r.PathValue("threadId"), req)
	if err != nil {
		writeError(w, r, err, "reply")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// Comment handles POST /e/{slug}/community/posts/{postId}/comments
func (h *CommunityHandler) Comment(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req models.CommentRequest
	if !decode(w, r, &req) {
		return
	}

	c, err := h.community.Comment(r.Context(), id.UserID, event.ID, r.PathValue("postId"), req)
	if err != nil {
		writeError(w, r, err, "comment")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, c)
}
