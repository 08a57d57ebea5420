// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/danielhkuo/mascon/auth"
	"github.com/danielhkuo/mascon/middleware"
	"github.com/danielhkuo/mascon/testutil"
)

const testSlug = "demo"

type testEnv struct {
	db        *sql.DB
	eventID   string
	organizer string
	alice     string
	bob       string
}

// newTestEnv seeds the demo event with an organizer and two attendees
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	env := &testEnv{
		db:        db,
		eventID:   testutil.CreateTestEvent(t, db, testSlug),
		organizer: testutil.CreateTestUser(t, db, "Olivia Organizer"),
		alice:     testutil.CreateTestUser(t, db, "Alice"),
		bob:       testutil.CreateTestUser(t, db, "Bob"),
	}
	testutil.MakeOrganizer(t, db, env.organizer, env.eventID)
	return env
}

// request builds an event-scoped request as userID with the given path
// values set. An empty userID leaves the request unauthenticated.
func request(method, path string, body interface{}, userID string, pathValues ...string) *http.Request {
	req := testutil.MakeRequest(method, path, body, nil)
	req.SetPathValue("slug", testSlug)
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	if userID != "" {
		req = req.WithContext(middleware.WithIdentity(req.Context(), auth.Identity{UserID: userID}))
	}
	return req
}
