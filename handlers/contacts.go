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

// ContactHandler covers contact exchange and follows (users and topics)
type ContactHandler struct {
	scope
	contacts  *services.ContactService
	community *services.CommunityService
}

func NewContactHandler(db *sql.DB, _ cliparse.Config) *ContactHandler {
	return &ContactHandler{
		scope:     scope{events: services.NewEventService(db)},
		contacts:  services.NewContactService(db),
		community: services.NewCommunityService(db),
	}
}

// List handles GET /e/{slug}/contacts
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	contacts, err := h.contacts.List(r.Context(), id.UserID, event.ID)
	if err != nil {
		writeError(w, r, err, "list contacts")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, contacts)
}

// Save handles POST /e/{slug}/contacts
func (h *ContactHandler) Save(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req models.SaveContactRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.contacts.Save(r.Context(), id.UserID, event.ID, req)
	if err != nil {
		writeError(w, r, err, "save contact")
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	middleware.JSONResponse(w, status, resp)
}

// Mutual handles POST /e/{slug}/contacts/mutual
func (h *ContactHandler) Mutual(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req models.SaveContactRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.contacts.ExchangeMutual(r.Context(), id.UserID, event.ID, req)
	if err != nil {
		writeError(w, r, err, "mutual contact exchange")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// FollowUser handles POST /e/{slug}/follows/users
func (h *ContactHandler) FollowUser(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req models.FollowUserRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.contacts.ToggleUserFollow(r.Context(), id.UserID, event.ID, req)
	if err != nil {
		writeError(w, r, err, "toggle user follow")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// FollowTopic handles POST /e/{slug}/follows/topics
func (h *ContactHandler) FollowTopic(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req models.FollowTopicRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.community.ToggleFollow(r.Context(), id.UserID, event.ID, req)
	if err != nil {
		writeError(w, r, err, "toggle topic follow")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}
