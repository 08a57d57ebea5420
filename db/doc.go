// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens connections and creates the schema.

# Connections

	conn, err := db.Open("sqlite", "mascon.db")
	conn, err := db.Open("postgres", "postgres://...")

SQLite connections enable foreign keys and a busy timeout and are limited
to one open connection. Queries use $N placeholders, which both drivers
accept.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
Tables lists every table, parents first.

# Tables

  - app_user, event, event_role, room, event_session
  - my_agenda_item
  - poll, poll_option, poll_vote
  - qa_question, qa_vote
  - message_thread, message
  - contact_exchange, user_follow, bookmark
  - gamification_point, notification
  - topic_category, topic_thread, topic_post, topic_comment, topic_follow
  - session_note

Uniqueness that the API relies on (one vote per poll per user, one thread
per pair per event, one ledger row per idempotency key) is enforced by
UNIQUE constraints. IsUniqueViolation and IsForeignKeyViolation recognise
those failures from either driver.

# Transactions

	err := db.WithTx(ctx, conn, func(tx *sql.Tx) error { ... })
*/
package db
