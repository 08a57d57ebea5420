// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"testing"

	"github.com/danielhkuo/mascon/models"
	"github.com/danielhkuo/mascon/testutil"
)

func TestNotificationList_MarksRead(t *testing.T) {
	f := newFixture(t)
	svc := NewNotificationService(f.db)
	other := testutil.CreateTestEvent(t, f.db, "other")

	notices := []notice{
		{UserID: f.alice, EventID: f.eventID, Type: models.NotificationAnnouncement, Title: "Doors open"},
		{UserID: f.alice, Type: models.NotificationAnnouncement, Title: "Global notice"},
		{UserID: f.alice, EventID: other, Type: models.NotificationAnnouncement, Title: "Other event"},
		{UserID: f.bob, EventID: f.eventID, Type: models.NotificationAnnouncement, Title: "For Bob"},
	}
	for _, n := range notices {
		if err := notifyTx(f.ctx, f.db, n); err != nil {
			t.Fatalf("notifyTx failed: %v", err)
		}
	}

	unread, err := svc.UnreadCount(f.ctx, f.alice)
	if err != nil {
		t.Fatal(err)
	}
	if unread != 3 {
		t.Errorf("Expected 3 unread across events, got %d", unread)
	}

	list, err := svc.List(f.ctx, f.alice, f.eventID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list.Notifications) != 2 {
		t.Fatalf("Expected event and global notifications, got %d", len(list.Notifications))
	}
	if list.Notifications[0].Title != "Global notice" {
		t.Errorf("Expected newest first, got %q", list.Notifications[0].Title)
	}
	if list.MarkedRead != 2 {
		t.Errorf("Expected 2 marked read, got %d", list.MarkedRead)
	}
	for _, n := range list.Notifications {
		if n.IsRead {
			t.Errorf("Expected %q returned as unread", n.Title)
		}
	}

	again, err := svc.List(f.ctx, f.alice, f.eventID)
	if err != nil {
		t.Fatal(err)
	}
	if again.MarkedRead != 0 || !again.Notifications[0].IsRead {
		t.Errorf("Expected everything already read, got %+v", again)
	}

	unread, err = svc.UnreadCount(f.ctx, f.alice)
	if err != nil {
		t.Fatal(err)
	}
	if unread != 1 {
		t.Errorf("Expected only the other event's notification unread, got %d", unread)
	}
}

func TestNotificationList_PageSize(t *testing.T) {
	f := newFixture(t)
	svc := NewNotificationService(f.db)

	for i := 0; i < notificationPageSize+10; i++ {
		if err := notifyTx(f.ctx, f.db, notice{UserID: f.alice, EventID: f.eventID, Type: models.NotificationAnnouncement, Title: "n"}); err != nil {
			t.Fatal(err)
		}
	}

	list, err := svc.List(f.ctx, f.alice, f.eventID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Notifications) != notificationPageSize {
		t.Errorf("Expected page of %d, got %d", notificationPageSize, len(list.Notifications))
	}
}
