// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/mascon/testutil"
)

// fakeClockBase is the first instant handed out by useFakeClock
var fakeClockBase = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// useFakeClock makes now() return strictly increasing instants one second
// apart so ordering by timestamp is deterministic
func useFakeClock(t *testing.T) {
	t.Helper()

	var mu sync.Mutex
	tick := 0
	prev := now
	now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return fakeClockBase.Add(time.Duration(tick) * time.Second)
	}
	t.Cleanup(func() { now = prev })
}

type fixture struct {
	db        *sql.DB
	ctx       context.Context
	eventID   string
	organizer string
	alice     string
	bob       string
}

// newFixture seeds an event with one organizer and two attendees
func newFixture(t *testing.T) *fixture {
	t.Helper()
	useFakeClock(t)

	conn := testutil.SetupTestDB(t)
	f := &fixture{
		db:        conn,
		ctx:       context.Background(),
		eventID:   testutil.CreateTestEvent(t, conn, "demo"),
		organizer: testutil.CreateTestUser(t, conn, "Olivia Organizer"),
		alice:     testutil.CreateTestUser(t, conn, "Alice"),
		bob:       testutil.CreateTestUser(t, conn, "Bob"),
	}
	testutil.MakeOrganizer(t, conn, f.organizer, f.eventID)
	return f
}

func (f *fixture) session(t *testing.T, title string, start time.Time) string {
	t.Helper()
	return testutil.CreateTestSession(t, f.db, f.eventID, title, start)
}

func (f *fixture) total(t *testing.T, userID string) int {
	t.Helper()
	total, err := NewGamificationService(f.db).UserTotal(f.ctx, userID, f.eventID)
	if err != nil {
		t.Fatalf("UserTotal failed: %v", err)
	}
	return total
}

func (f *fixture) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	if err := f.db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	return n
}

func assertNotFound(t *testing.T, err error, entity string) {
	t.Helper()
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Expected NotFoundError(%s), got %v", entity, err)
	}
	if nf.Entity != entity {
		t.Errorf("Expected %s not found, got %s not found", entity, nf.Entity)
	}
}

func assertInvalid(t *testing.T, err error, field string) {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError on %s, got %v", field, err)
	}
	if ve.Field != field {
		t.Errorf("Expected field %q, got %q (%s)", field, ve.Field, ve.Message)
	}
}

func strPtr(s string) *string { return &s }
