// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Request structs carry validator tags checked by the services package:

	type VoteRequest struct {
		OptionID string `json:"option_id" validate:"required"`
	}

Field names in validation errors use the JSON name.

# Domain Types

  - Event, Session, AgendaEntry
  - Poll, PollOption
  - Question
  - Thread, ThreadSummary, Message
  - Profile (after privacy redaction), UserSummary, Contact
  - Bookmark, Note, Notification
  - PointEntry, LeaderboardEntry
  - TopicCategory, TopicThread, TopicPost, TopicComment

# Constants

Event roles:

	RoleAttendee, RoleExhibitor, RoleSpeaker, RoleOrganizer, RoleAdmin

Bookmark targets:

	TargetSession, TargetSpeaker, TargetExhibitor, TargetSponsor, TargetUser, TargetTopic

Notification types:

	NotificationMessage, NotificationFollow, NotificationAnnouncement,
	NotificationContact, NotificationTopicReply
*/
package models
