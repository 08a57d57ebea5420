// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/mascon/auth"
	"github.com/danielhkuo/mascon/cliparse"
	"github.com/danielhkuo/mascon/middleware"
	"github.com/danielhkuo/mascon/models"
	"github.com/danielhkuo/mascon/services"
)

// Fixed demo account minted by DemoLogin
const (
	DemoUserID    = "demo-user"
	DemoUserEmail = "demo@mascon.local"
	DemoUserName  = "Demo Attendee"
)

type AuthHandler struct {
	profiles *services.ProfileService
	cfg      cliparse.Config
}

func NewAuthHandler(db *sql.DB, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{profiles: services.NewProfileService(db), cfg: cfg}
}

// DemoLogin handles GET /auth/demo-login. Disabled unless DEMO_LOGIN is set.
func (h *AuthHandler) DemoLogin(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.DemoLogin {
		middleware.ErrorResponse(w, http.StatusNotFound, "Demo login is disabled")
		return
	}

	profile, err := h.profiles.EnsureUser(r.Context(), DemoUserID, DemoUserEmail, DemoUserName)
	if err != nil {
		writeError(w, r, err, "ensure demo user")
		return
	}

	token, err := auth.IssueToken(auth.Identity{
		UserID: profile.ID,
		Email:  DemoUserEmail,
		Name:   profile.Name,
	}, h.cfg.JWTSecret, h.cfg.TokenTTL)
	if err != nil {
		slog.Error("failed to issue demo token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	slog.Info("demo login", "user_id", profile.ID)
	middleware.JSONResponse(w, http.StatusOK, models.DemoLoginResponse{Token: token, User: profile})
}
