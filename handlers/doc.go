// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the mascon API.

# Handler Types

Each handler is a struct built from the database and config:

  - AuthHandler: demo login
  - ProfileHandler: profiles and profile updates
  - EventHandler: event lookup and sessions
  - AgendaHandler: personal agenda
  - PollHandler: live polls and voting
  - QAHandler: session questions
  - MessagingHandler: direct message threads
  - ContactHandler: contact exchange and follows
  - BookmarkHandler: bookmarks
  - GamificationHandler: points and leaderboard
  - CommunityHandler: discussion categories, topics, replies
  - NotificationHandler: inbox
  - NoteHandler: private session notes

	pollHandler := handlers.NewPollHandler(db, cfg)

# Event Scope

Routes under /e/{slug} resolve the event first. An unknown slug is 404
"Event not found"; a request without an identity is 401.

# Errors

Service errors map to status codes:

	*services.ValidationError → 400 with the offending field
	*services.NotFoundError   → 404 "<Entity> not found"
	*services.ConflictError   → 409
	anything else             → 500 "Internal error" (logged)

Organizer-only operations answer 404 to everyone else.
*/
package handlers
