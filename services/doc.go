// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package services holds the MASCON domain logic between the HTTP handlers and
the database.

# Services

Each service wraps a *sql.DB and is created with a constructor:

	polls := services.NewPollService(conn)
	resp, err := polls.Vote(ctx, userID, eventID, pollID, req)

  - EventService: slug resolution, sessions, event roles
  - AgendaService: personal agenda (sessions and custom activities)
  - PollService: live polls and votes
  - QAService: session questions and upvotes
  - MessagingService: two-party threads and messages
  - ContactService: contact exchange and user follows
  - BookmarkService: bookmark toggles
  - GamificationService: points ledger and leaderboard
  - CommunityService: categories, topic threads, posts, comments
  - NotificationService: inbox
  - ProfileService: profiles with privacy redaction
  - NoteService: private session notes

# Errors

Failures use a small taxonomy that handlers map to status codes:

	errors.Is(err, services.ErrNotFound)   // 404
	errors.Is(err, services.ErrConflict)   // 409
	errors.Is(err, services.ErrValidation) // 400, see *ValidationError

Organizer-only operations report ErrNotFound to non-organizers.

# Concurrency

Uniqueness is enforced by constraints. An insert that violates one is the
"already exists" path, never a failure. Counters are bumped with
SET x = x + 1 inside the same transaction as the row that justifies them.
*/
package services
