// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/mascon/auth"
	"github.com/danielhkuo/mascon/cliparse"
	"github.com/danielhkuo/mascon/db"
)

// TestDBURL is an in-memory sqlite database. db.Open pins sqlite to a single
// connection, so every query in a test sees the same database.
const TestDBURL = ":memory:"

const TestJWTSecret = "test-jwt-secret"

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  TestDBURL,
		DatabaseType: "sqlite",
		JWTSecret:    TestJWTSecret,
		Env:          cliparse.EnvLocal,
		DemoLogin:    true,
		TokenTTL:     time.Hour,
	}
}

// CreateTestUser inserts a user and returns its ID
func CreateTestUser(t *testing.T, conn *sql.DB, name string) string {
	t.Helper()

	id := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO app_user (id, email, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
	`, id, id+"@example.com", name, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return id
}

// CreateTestEvent inserts a three-day event starting today and returns its ID
func CreateTestEvent(t *testing.T, conn *sql.DB, slug string) string {
	t.Helper()

	id := auth.NewID()
	start := time.Now().UTC().Truncate(24 * time.Hour)
	_, err := conn.Exec(`
		INSERT INTO event (id, slug, name, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, slug, "Event "+slug, start, start.Add(72*time.Hour), time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}
	return id
}

// SetRole records the user's role in the event
func SetRole(t *testing.T, conn *sql.DB, userID, eventID, role string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO event_role (user_id, event_id, role, created_at)
		VALUES ($1, $2, $3, $4)
	`, userID, eventID, role, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to set role: %v", err)
	}
}

// MakeOrganizer grants the ORGANIZER role
func MakeOrganizer(t *testing.T, conn *sql.DB, userID, eventID string) {
	t.Helper()
	SetRole(t, conn, userID, eventID, "ORGANIZER")
}

// CreateTestRoom inserts a room and returns its ID
func CreateTestRoom(t *testing.T, conn *sql.DB, eventID, name string) string {
	t.Helper()

	id := auth.NewID()
	if _, err := conn.Exec(`INSERT INTO room (id, event_id, name) VALUES ($1, $2, $3)`, id, eventID, name); err != nil {
		t.Fatalf("Failed to create test room: %v", err)
	}
	return id
}

// CreateTestSession inserts a one-hour session and returns its ID
func CreateTestSession(t *testing.T, conn *sql.DB, eventID, title string, start time.Time) string {
	t.Helper()

	id := auth.NewID()
	start = start.UTC()
	_, err := conn.Exec(`
		INSERT INTO event_session (id, event_id, title, start_time, end_time, session_type, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, 'talk', TRUE, $6)
	`, id, eventID, title, start, start.Add(time.Hour), time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	return id
}

// CreateTestPoll inserts a poll with the given options and returns the poll
// ID and option IDs in order
func CreateTestPoll(t *testing.T, conn *sql.DB, eventID string, active bool, options ...string) (string, []string) {
	t.Helper()

	pollID := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO poll (id, event_id, question, is_active, created_at)
		VALUES ($1, $2, 'Test Poll?', $3, $4)
	`, pollID, eventID, active, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	optionIDs := make([]string, 0, len(options))
	for i, text := range options {
		id := auth.NewID()
		if _, err := conn.Exec(`
			INSERT INTO poll_option (id, poll_id, text, position, votes_count)
			VALUES ($1, $2, $3, $4, 0)
		`, id, pollID, text, i); err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
		optionIDs = append(optionIDs, id)
	}

	return pollID, optionIDs
}

// CreateTestCategory inserts a community category and returns its ID
func CreateTestCategory(t *testing.T, conn *sql.DB, eventID, name string) string {
	t.Helper()

	id := auth.NewID()
	if _, err := conn.Exec(`
		INSERT INTO topic_category (id, event_id, name, sort_order) VALUES ($1, $2, $3, 0)
	`, id, eventID, name); err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}
	return id
}

// AuthHeader returns an Authorization header carrying a token for userID
func AuthHeader(t *testing.T, cfg cliparse.Config, userID string) map[string]string {
	t.Helper()

	token, err := auth.IssueToken(auth.Identity{UserID: userID}, cfg.JWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
