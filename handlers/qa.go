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

type QAHandler struct {
	scope
	qa *services.QAService
}

func NewQAHandler(db *sql.DB, _ cliparse.Config) *QAHandler {
	return &QAHandler{
		scope: scope{events: services.NewEventService(db)},
		qa:    services.NewQAService(db),
	}
}

// List handles GET /e/{slug}/sessions/{sessionId}/questions
func (h *QAHandler) List(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	questions, err := h.qa.List(r.Context(), id.UserID, event.ID, r.PathValue("sessionId"))
	if err != nil {
		writeError(w, r, err, "list questions")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, questions)
}

// Ask handles POST /e/{slug}/sessions/{sessionId}/questions
func (h *QAHandler) Ask(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req models.AskQuestionRequest
	if !decode(w, r, &req) {
		return
	}

	q, err := h.qa.Ask(r.Context(), id.UserID, event.ID, r.PathValue("sessionId"), req)
	if err != nil {
		writeError(w, r, err, "ask question")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, q)
}

// Upvote handles POST /e/{slug}/questions/{questionId}/upvote
func (h *QAHandler) Upvote(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	resp, err := h.qa.Upvote(r.Context(), id.UserID, event.ID, r.PathValue("questionId"))
	if err != nil {
		writeError(w, r, err, "upvote question")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// SetAnswered handles POST /e/{slug}/questions/{questionId}/answered (organizers)
func (h *QAHandler) SetAnswered(w http.ResponseWriter, r *http.Request) {
	event, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req models.SetAnsweredRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.qa.SetAnswered(r.Context(), id.UserID, event.ID, r.PathValue("questionId"), req.Answered); err != nil {
		writeError(w, r, err, "set answered")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}
