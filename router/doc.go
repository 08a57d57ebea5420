// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the mascon API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Public:

	GET /health
	GET /auth/demo-login

Profiles:

	GET /me, PUT /me, GET /users/{id}, PUT /e/{slug}/me

Event scoped (bearer token required):

	GET  /e/{slug}                                  - Event
	GET  /e/{slug}/sessions, POST                   - Sessions
	GET  /e/{slug}/agenda, POST, DELETE             - Personal agenda
	POST /e/{slug}/agenda/custom                    - Custom activity
	GET  /e/{slug}/polls, POST                      - Live polls
	POST /e/{slug}/polls/{pollId}/vote              - Vote
	POST /e/{slug}/polls/{pollId}/active            - Open or close
	GET  /e/{slug}/sessions/{sessionId}/questions   - Q&A, POST to ask
	POST /e/{slug}/questions/{questionId}/upvote    - Upvote
	POST /e/{slug}/questions/{questionId}/answered  - Mark answered
	GET  /e/{slug}/threads, POST                    - Messages
	GET  /e/{slug}/threads/{threadId}               - Open thread
	POST /e/{slug}/threads/{threadId}/messages      - Send
	GET  /e/{slug}/contacts, POST                   - Contacts
	POST /e/{slug}/contacts/mutual                  - Mutual exchange
	POST /e/{slug}/follows/users, /follows/topics   - Follow toggles
	GET  /e/{slug}/leaderboard, /points/me          - Points
	POST /e/{slug}/points, /points/adjust           - Award, adjust
	GET  /e/{slug}/community, POST                  - Community
	GET  /e/{slug}/community/{threadId}             - Topic detail
	GET  /e/{slug}/notifications                    - Inbox
	GET  /e/{slug}/notes, PUT                       - Session notes

Not event scoped:

	GET /bookmarks, POST /bookmarks
	GET /notifications/unread

All routes are wrapped with request logging; private ones also with
middleware.Authenticate.
*/
package router
