// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	// One statement per Exec so both drivers report the failing statement.
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// Tables lists every table in dependency order (parents first).
var Tables = []string{
	"app_user",
	"event",
	"event_role",
	"room",
	"event_session",
	"my_agenda_item",
	"poll",
	"poll_option",
	"poll_vote",
	"qa_question",
	"qa_vote",
	"message_thread",
	"message",
	"contact_exchange",
	"user_follow",
	"bookmark",
	"gamification_point",
	"notification",
	"topic_category",
	"topic_thread",
	"topic_post",
	"topic_comment",
	"topic_follow",
	"session_note",
}

// Timestamps are always written from Go in UTC; the DEFAULTs only cover
// rows inserted by hand.
const schema = `
-- Users (global identity, shared across events)
CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL DEFAULT '',
    image TEXT,
    title TEXT,
    company TEXT,
    bio TEXT,
    phone TEXT,
    linkedin TEXT,
    twitter TEXT,
    website TEXT,
    share_email BOOLEAN NOT NULL DEFAULT FALSE,
    share_phone BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Events (tenancy boundary)
CREATE TABLE IF NOT EXISTS event (
    id TEXT PRIMARY KEY,
    slug TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    description TEXT,
    venue TEXT,
    start_date TIMESTAMP NOT NULL,
    end_date TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK (end_date >= start_date)
);

CREATE TABLE IF NOT EXISTS event_role (
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    role TEXT NOT NULL CHECK (role IN ('ATTENDEE', 'EXHIBITOR', 'SPEAKER', 'ORGANIZER', 'ADMIN')),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (user_id, event_id)
);

CREATE TABLE IF NOT EXISTS room (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    name TEXT NOT NULL
);

-- Sessions
CREATE TABLE IF NOT EXISTS event_session (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    description TEXT,
    start_time TIMESTAMP NOT NULL,
    end_time TIMESTAMP NOT NULL,
    session_type TEXT NOT NULL DEFAULT 'talk',
    track TEXT,
    room_id TEXT REFERENCES room(id) ON DELETE SET NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK (end_time > start_time)
);

CREATE INDEX IF NOT EXISTS idx_event_session_event ON event_session(event_id, start_time);

-- Personal agenda
CREATE TABLE IF NOT EXISTS my_agenda_item (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    session_id TEXT REFERENCES event_session(id) ON DELETE CASCADE,
    is_custom BOOLEAN NOT NULL DEFAULT FALSE,
    custom_title TEXT,
    custom_start_time TIMESTAMP,
    custom_end_time TIMESTAMP,
    custom_location TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (user_id, session_id),
    CHECK (
        (is_custom = FALSE AND session_id IS NOT NULL) OR
        (is_custom = TRUE AND session_id IS NULL AND custom_title IS NOT NULL
            AND custom_start_time IS NOT NULL AND custom_end_time IS NOT NULL)
    )
);

CREATE INDEX IF NOT EXISTS idx_my_agenda_item_user ON my_agenda_item(user_id, event_id);

-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    session_id TEXT REFERENCES event_session(id) ON DELETE SET NULL,
    question TEXT NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_poll_event ON poll(event_id);

CREATE TABLE IF NOT EXISTS poll_option (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    text TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    votes_count INTEGER NOT NULL DEFAULT 0 CHECK (votes_count >= 0)
);

CREATE INDEX IF NOT EXISTS idx_poll_option_poll ON poll_option(poll_id);

CREATE TABLE IF NOT EXISTS poll_vote (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    option_id TEXT NOT NULL REFERENCES poll_option(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (option_id, user_id),
    UNIQUE (poll_id, user_id)
);

-- Session Q&A
CREATE TABLE IF NOT EXISTS qa_question (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES event_session(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    content TEXT NOT NULL,
    is_anonymous BOOLEAN NOT NULL DEFAULT FALSE,
    is_answered BOOLEAN NOT NULL DEFAULT FALSE,
    votes_count INTEGER NOT NULL DEFAULT 0 CHECK (votes_count >= 0),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_qa_question_session ON qa_question(session_id);

CREATE TABLE IF NOT EXISTS qa_vote (
    question_id TEXT NOT NULL REFERENCES qa_question(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (question_id, user_id)
);

-- Direct messages. user_low/user_high hold the participants in sorted order
-- so one unique index covers both orderings of the pair.
CREATE TABLE IF NOT EXISTS message_thread (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    creator_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    participant_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    user_low TEXT NOT NULL,
    user_high TEXT NOT NULL,
    is_system BOOLEAN NOT NULL DEFAULT FALSE,
    system_type TEXT,
    last_message_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (event_id, user_low, user_high),
    CHECK (user_low < user_high)
);

CREATE INDEX IF NOT EXISTS idx_message_thread_creator ON message_thread(creator_id);
CREATE INDEX IF NOT EXISTS idx_message_thread_participant ON message_thread(participant_id);

CREATE TABLE IF NOT EXISTS message (
    id TEXT PRIMARY KEY,
    thread_id TEXT NOT NULL REFERENCES message_thread(id) ON DELETE CASCADE,
    sender_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    content TEXT NOT NULL,
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_message_thread ON message(thread_id, created_at);

-- Contacts and follows
CREATE TABLE IF NOT EXISTS contact_exchange (
    id TEXT PRIMARY KEY,
    giver_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    receiver_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    note TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (event_id, giver_id, receiver_id),
    CHECK (giver_id <> receiver_id)
);

CREATE INDEX IF NOT EXISTS idx_contact_exchange_receiver ON contact_exchange(receiver_id, event_id);

CREATE TABLE IF NOT EXISTS user_follow (
    follower_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    following_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (follower_id, following_id),
    CHECK (follower_id <> following_id)
);

CREATE TABLE IF NOT EXISTS bookmark (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    target_type TEXT NOT NULL,
    target_id TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (user_id, target_type, target_id)
);

-- Gamification ledger (append-only)
CREATE TABLE IF NOT EXISTS gamification_point (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    action TEXT NOT NULL,
    points INTEGER NOT NULL,
    reason TEXT,
    idempotency_key TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (event_id, user_id, idempotency_key)
);

CREATE INDEX IF NOT EXISTS idx_gamification_point_event ON gamification_point(event_id, user_id);

-- Notifications
CREATE TABLE IF NOT EXISTS notification (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    event_id TEXT REFERENCES event(id) ON DELETE CASCADE,
    type TEXT NOT NULL,
    title TEXT NOT NULL,
    content TEXT,
    link TEXT,
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notification_user ON notification(user_id, created_at);

-- Community
CREATE TABLE IF NOT EXISTS topic_category (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    description TEXT,
    sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS topic_thread (
    id TEXT PRIMARY KEY,
    category_id TEXT NOT NULL REFERENCES topic_category(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    posts_count INTEGER NOT NULL DEFAULT 0 CHECK (posts_count >= 0),
    last_post_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_topic_thread_category ON topic_thread(category_id);

CREATE TABLE IF NOT EXISTS topic_post (
    id TEXT PRIMARY KEY,
    thread_id TEXT NOT NULL REFERENCES topic_thread(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    content TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_topic_post_thread ON topic_post(thread_id, created_at);

CREATE TABLE IF NOT EXISTS topic_comment (
    id TEXT PRIMARY KEY,
    post_id TEXT NOT NULL REFERENCES topic_post(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    content TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS topic_follow (
    follower_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    thread_id TEXT NOT NULL REFERENCES topic_thread(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (follower_id, thread_id)
);

-- Private per-session notes
CREATE TABLE IF NOT EXISTS session_note (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    session_id TEXT NOT NULL REFERENCES event_session(id) ON DELETE CASCADE,
    content TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (user_id, session_id)
)
`
