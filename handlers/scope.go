// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/mascon/auth"
	"github.com/danielhkuo/mascon/middleware"
	"github.com/danielhkuo/mascon/models"
	"github.com/danielhkuo/mascon/services"
)

// scope resolves the {slug} path value and the caller for event routes
type scope struct {
	events *services.EventService
}

// caller returns the authenticated identity or writes 401
func caller(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return auth.Identity{}, false
	}
	return id, true
}

// resolve looks up the event named by {slug} and the caller. It writes the
// error response itself and returns false on failure.
func (s scope) resolve(w http.ResponseWriter, r *http.Request) (models.Event, auth.Identity, bool) {
	id, ok := caller(w, r)
	if !ok {
		return models.Event{}, auth.Identity{}, false
	}

	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return models.Event{}, auth.Identity{}, false
	}

	event, err := s.events.BySlug(r.Context(), slug)
	if err != nil {
		writeError(w, r, err, "resolve event")
		return models.Event{}, auth.Identity{}, false
	}
	return event, id, true
}

// decode parses a JSON body or writes 400
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := middleware.ParseJSONBody(r, v); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	return true
}

// writeError maps a service error to a status code. Anything outside the
// taxonomy is logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, op string) {
	var verr *services.ValidationError
	var nf *services.NotFoundError
	var cf *services.ConflictError

	switch {
	case errors.As(err, &verr):
		middleware.FieldErrorResponse(w, http.StatusBadRequest, verr.Message, verr.Field)
	case errors.As(err, &nf):
		middleware.ErrorResponse(w, http.StatusNotFound, displayEntity(nf.Entity)+" not found")
	case errors.As(err, &cf):
		middleware.ErrorResponse(w, http.StatusConflict, cf.Message)
	default:
		slog.Error("request failed",
			"op", op,
			"request_id", middleware.RequestID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}

func displayEntity(e string) string {
	if e == "" {
		return "Resource"
	}
	return strings.ToUpper(e[:1]) + e[1:]
}
