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

type PollHandler struct {
	scope
	polls *services.PollService
}

func NewPollHandler(db *sql.DB, _ cliparse.Config) *PollHandler {
	return &PollHandler{
		scope: scope{events: services.NewEventService(db)},
		polls: services.NewPollService(db),
	}
}

// ListPolls handles GET /e/{slug}/polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	polls, err := h.polls.ListPolls(r.Context(), id.UserID, event.ID)
	if err != nil {
		writeError(w, r, err, "list polls")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, polls)
}

// CreatePoll handles POST /e/{slug}/polls (organizers)
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req models.CreatePollRequest
	if !decode(w, r, &req) {
		return
	}

	poll, err := h.polls.CreatePoll(r.Context(), id.UserID, event.ID, req)
	if err != nil {
		writeError(w, r, err, "create poll")
		return
	}

	slog.Info("poll created", "event_id", event.ID, "poll_id", poll.ID, "options", len(poll.Options))
	middleware.JSONResponse(w, http.StatusCreated, poll)
}

// Vote handles POST /e/{slug}/polls/{pollId}/vote
func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req models.VoteRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.polls.Vote(r.Context(), id.UserID, event.ID, r.PathValue("pollId"), req)
	if err != nil {
		writeError(w, r, err, "vote")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// SetActive handles POST /e/{slug}/polls/{pollId}/active (organizers)
func (h *PollHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req models.SetActiveRequest
	if !decode(w, r, &req) {
		return
	}

	pollID := r.PathValue("pollId")
	if err := h.polls.SetActive(r.Context(), id.UserID, event.ID, pollID, req.Active); err != nil {
		writeError(w, r, err, "set poll active")
		return
	}

	slog.Info("poll activity changed", "poll_id", pollID, "active", req.Active)
	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}
