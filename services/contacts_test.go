// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"testing"

	"github.com/danielhkuo/mascon/models"
)

func TestSaveContact(t *testing.T) {
	f := newFixture(t)
	svc := NewContactService(f.db)

	req := models.SaveContactRequest{ContactUserID: f.bob, Note: strPtr("Met at keynote")}
	first, err := svc.Save(f.ctx, f.alice, f.eventID, req)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !first.Created {
		t.Error("Expected first save to create")
	}

	again, err := svc.Save(f.ctx, f.alice, f.eventID, req)
	if err != nil {
		t.Fatalf("Repeat save failed: %v", err)
	}
	if again.Created || again.ID != first.ID || again.Message == "" {
		t.Errorf("Expected existing contact %s with message, got %+v", first.ID, again)
	}

	// The receiver earns points once; the giver earns nothing
	if got := f.total(t, f.alice); got != PointValues[ActionContactExchange] {
		t.Errorf("Expected %d points for Alice, got %d", PointValues[ActionContactExchange], got)
	}
	if got := f.total(t, f.bob); got != 0 {
		t.Errorf("Expected no points for Bob, got %d", got)
	}

	inbox, err := NewNotificationService(f.db).List(f.ctx, f.bob, f.eventID)
	if err != nil {
		t.Fatal(err)
	}
	if len(inbox.Notifications) != 1 || inbox.Notifications[0].Type != models.NotificationContact {
		t.Errorf("Expected one contact notification for Bob, got %+v", inbox.Notifications)
	}
}

func TestSaveContact_Errors(t *testing.T) {
	f := newFixture(t)
	svc := NewContactService(f.db)

	_, err := svc.Save(f.ctx, f.alice, f.eventID, models.SaveContactRequest{ContactUserID: f.alice})
	assertInvalid(t, err, "contact_user_id")

	_, err = svc.Save(f.ctx, f.alice, f.eventID, models.SaveContactRequest{ContactUserID: "ghost"})
	assertNotFound(t, err, "user")

	_, err = svc.Save(f.ctx, f.alice, f.eventID, models.SaveContactRequest{})
	assertInvalid(t, err, "contact_user_id")
}

func TestListContacts_Redacted(t *testing.T) {
	f := newFixture(t)
	svc := NewContactService(f.db)

	if _, err := f.db.Exec(`UPDATE app_user SET phone = '555-0100', share_email = TRUE, share_phone = FALSE WHERE id = $1`, f.bob); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Save(f.ctx, f.alice, f.eventID, models.SaveContactRequest{ContactUserID: f.bob, Note: strPtr("Go meetup")}); err != nil {
		t.Fatal(err)
	}

	contacts, err := svc.List(f.ctx, f.alice, f.eventID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("Expected 1 contact, got %d", len(contacts))
	}
	c := contacts[0]
	if c.User.ID != f.bob {
		t.Errorf("Expected Bob's card, got %s", c.User.Name)
	}
	if c.User.Email == nil {
		t.Error("Expected shared email to be visible")
	}
	if c.User.Phone != nil {
		t.Error("Expected unshared phone to be hidden")
	}
	if c.Note == nil || *c.Note != "Go meetup" {
		t.Errorf("Expected note, got %v", c.Note)
	}

	// Bob has not saved Alice
	bobs, err := svc.List(f.ctx, f.bob, f.eventID)
	if err != nil {
		t.Fatal(err)
	}
	if len(bobs) != 0 {
		t.Errorf("Expected no contacts for Bob, got %d", len(bobs))
	}
}

func TestExchangeMutual(t *testing.T) {
	f := newFixture(t)
	svc := NewContactService(f.db)

	// Alice already saved Bob; the mutual exchange adds only the other side
	if _, err := svc.Save(f.ctx, f.alice, f.eventID, models.SaveContactRequest{ContactUserID: f.bob}); err != nil {
		t.Fatal(err)
	}

	resp, err := svc.ExchangeMutual(f.ctx, f.alice, f.eventID, models.SaveContactRequest{ContactUserID: f.bob})
	if err != nil {
		t.Fatalf("ExchangeMutual failed: %v", err)
	}
	if resp.Created != 1 {
		t.Errorf("Expected 1 new direction, got %d", resp.Created)
	}
	if resp.GivenID == "" || resp.SavedID == "" || resp.GivenID == resp.SavedID {
		t.Errorf("Expected two distinct exchange ids, got %+v", resp)
	}

	repeat, err := svc.ExchangeMutual(f.ctx, f.bob, f.eventID, models.SaveContactRequest{ContactUserID: f.alice})
	if err != nil {
		t.Fatal(err)
	}
	if repeat.Created != 0 {
		t.Errorf("Expected nothing new, got %d", repeat.Created)
	}
	if repeat.GivenID != resp.SavedID || repeat.SavedID != resp.GivenID {
		t.Errorf("Expected the same rows seen from Bob's side, got %+v", repeat)
	}

	if got := f.total(t, f.alice); got != PointValues[ActionContactExchange] {
		t.Errorf("Expected Alice awarded once, got %d", got)
	}
	if got := f.total(t, f.bob); got != PointValues[ActionContactExchange] {
		t.Errorf("Expected Bob awarded once, got %d", got)
	}
}

func TestToggleUserFollow(t *testing.T) {
	f := newFixture(t)
	svc := NewContactService(f.db)
	req := models.FollowUserRequest{UserID: f.bob}

	for i, want := range []bool{true, false, true} {
		resp, err := svc.ToggleUserFollow(f.ctx, f.alice, f.eventID, req)
		if err != nil {
			t.Fatalf("Toggle %d failed: %v", i, err)
		}
		if resp.Following != want {
			t.Errorf("Toggle %d: expected following=%v, got %v", i, want, resp.Following)
		}
	}

	if n := f.count(t, `SELECT COUNT(*) FROM notification WHERE user_id = $1 AND type = $2`, f.bob, models.NotificationFollow); n != 2 {
		t.Errorf("Expected a follow notification per follow, got %d", n)
	}

	_, err := svc.ToggleUserFollow(f.ctx, f.alice, f.eventID, models.FollowUserRequest{UserID: f.alice})
	assertInvalid(t, err, "user_id")
}
