// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/mascon/cliparse"
	"github.com/danielhkuo/mascon/handlers"
	"github.com/danielhkuo/mascon/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	profileHandler := handlers.NewProfileHandler(db, cfg)
	eventHandler := handlers.NewEventHandler(db, cfg)
	agendaHandler := handlers.NewAgendaHandler(db, cfg)
	pollHandler := handlers.NewPollHandler(db, cfg)
	qaHandler := handlers.NewQAHandler(db, cfg)
	messagingHandler := handlers.NewMessagingHandler(db, cfg)
	contactHandler := handlers.NewContactHandler(db, cfg)
	bookmarkHandler := handlers.NewBookmarkHandler(db, cfg)
	gamificationHandler := handlers.NewGamificationHandler(db, cfg)
	communityHandler := handlers.NewCommunityHandler(db, cfg)
	notificationHandler := handlers.NewNotificationHandler(db, cfg)
	noteHandler := handlers.NewNoteHandler(db, cfg)

	authenticate := middleware.Authenticate(cfg.JWTSecret)
	public := middleware.WithLogging
	private := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(authenticate(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Identity and profiles
	mux.HandleFunc("GET /auth/demo-login", public(authHandler.DemoLogin))
	mux.HandleFunc("GET /users/{id}", private(profileHandler.GetUser))
	mux.HandleFunc("GET /me", private(profileHandler.Me))
	mux.HandleFunc("PUT /me", private(profileHandler.UpdateMe))
	mux.HandleFunc("PUT /e/{slug}/me", private(profileHandler.UpdateInEvent))

	// Event and sessions
	mux.HandleFunc("GET /e/{slug}", private(eventHandler.GetEvent))
	mux.HandleFunc("GET /e/{slug}/sessions", private(eventHandler.ListSessions))
	mux.HandleFunc("POST /e/{slug}/sessions", private(eventHandler.CreateSession))

	// Personal agenda
	mux.HandleFunc("GET /e/{slug}/agenda", private(agendaHandler.List))
	mux.HandleFunc("POST /e/{slug}/agenda", private(agendaHandler.Add))
	mux.HandleFunc("DELETE /e/{slug}/agenda", private(agendaHandler.Remove))
	mux.HandleFunc("POST /e/{slug}/agenda/custom", private(agendaHandler.AddCustom))

	// Live polls
	mux.HandleFunc("GET /e/{slug}/polls", private(pollHandler.ListPolls))
	mux.HandleFunc("POST /e/{slug}/polls", private(pollHandler.CreatePoll))
	mux.HandleFunc("POST /e/{slug}/polls/{pollId}/vote", private(pollHandler.Vote))
	mux.HandleFunc("POST /e/{slug}/polls/{pollId}/active", private(pollHandler.SetActive))

	// Session Q&A
	mux.HandleFunc("GET /e/{slug}/sessions/{sessionId}/questions", private(qaHandler.List))
	mux.HandleFunc("POST /e/{slug}/sessions/{sessionId}/questions", private(qaHandler.Ask))
	mux.HandleFunc("POST /e/{slug}/questions/{questionId}/upvote", private(qaHandler.Upvote))
	mux.HandleFunc("POST /e/{slug}/questions/{questionId}/answered", private(qaHandler.SetAnswered))

	// Direct messages
	mux.HandleFunc("GET /e/{slug}/threads", private(messagingHandler.ListThreads))
	mux.HandleFunc("POST /e/{slug}/threads", private(messagingHandler.StartThread))
	mux.HandleFunc("GET /e/{slug}/threads/{threadId}", private(messagingHandler.OpenThread))
	mux.HandleFunc("POST /e/{slug}/threads/{threadId}/messages", private(messagingHandler.SendMessage))

	// Contacts and follows
	mux.HandleFunc("GET /e/{slug}/contacts", private(contactHandler.List))
	mux.HandleFunc("POST /e/{slug}/contacts", private(contactHandler.Save))
	mux.HandleFunc("POST /e/{slug}/contacts/mutual", private(contactHandler.Mutual))
	mux.HandleFunc("POST /e/{slug}/follows/users", private(contactHandler.FollowUser))
	mux.HandleFunc("POST /e/{slug}/follows/topics", private(contactHandler.FollowTopic))

	// Bookmarks (not event scoped)
	mux.HandleFunc("GET /bookmarks", private(bookmarkHandler.List))
	mux.HandleFunc("POST /bookmarks", private(bookmarkHandler.Toggle))

	// Gamification
	mux.HandleFunc("GET /e/{slug}/leaderboard", private(gamificationHandler.Leaderboard))
	mux.HandleFunc("GET /e/{slug}/points/me", private(gamificationHandler.MyPoints))
	mux.HandleFunc("POST /e/{slug}/points", private(gamificationHandler.Award))
	mux.HandleFunc("POST /e/{slug}/points/adjust", private(gamificationHandler.Adjust))

	// Community
	mux.HandleFunc("GET /e/{slug}/community", private(communityHandler.ListCategories))
	mux.HandleFunc("POST /e/{slug}/community", private(communityHandler.CreateTopic))
	mux.HandleFunc("POST /e/{slug}/community/categories", private(communityHandler.CreateCategory))
	mux.HandleFunc("GET /e/{slug}/community/{threadId}", private(communityHandler.GetThread))
	mux.HandleFunc("POST /e/{slug}/community/{threadId}/posts", private(communityHandler.Reply))
	mux.HandleFunc("POST /e/{slug}/community/posts/{postId}/comments", private(communityHandler.Comment))

	// Notifications and notes
	mux.HandleFunc("GET /e/{slug}/notifications", private(notificationHandler.List))
	mux.HandleFunc("GET /notifications/unread", private(notificationHandler.Unread))
	mux.HandleFunc("GET /e/{slug}/notes", private(noteHandler.List))
	mux.HandleFunc("PUT /e/{slug}/notes", private(noteHandler.Put))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("mascon API v1"))
	})

	return mux
}
