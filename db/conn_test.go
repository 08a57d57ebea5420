// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{":memory:", ":memory:?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"},
		{"file:app.db?mode=rwc", "file:app.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"},
	}

	for _, tt := range tests {
		if got := SQLiteDSN(tt.in); got != tt.want {
			t.Errorf("SQLiteDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOpen_UnsupportedType(t *testing.T) {
	if _, err := Open("oracle", "whatever"); err == nil {
		t.Error("Expected an error for an unsupported database type")
	}
}

func TestCreateSchema_Idempotent(t *testing.T) {
	conn := openTestDB(t)

	if err := CreateSchema(conn); err != nil {
		t.Fatalf("Second CreateSchema failed: %v", err)
	}

	for _, table := range Tables {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s missing: %v", table, err)
		}
	}
}

func TestConstraintViolations(t *testing.T) {
	conn := openTestDB(t)
	now := time.Now().UTC()

	insertUser := func(id, email string) error {
		_, err := conn.Exec(`
			INSERT INTO app_user (id, email, name, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)
		`, id, email, "User "+id, now)
		return err
	}

	if err := insertUser("u1", "a@example.com"); err != nil {
		t.Fatal(err)
	}

	err := insertUser("u2", "a@example.com")
	if !IsUniqueViolation(err) {
		t.Errorf("Expected unique violation for duplicate email, got %v", err)
	}
	if IsForeignKeyViolation(err) {
		t.Error("Duplicate email is not a foreign key failure")
	}

	_, err = conn.Exec(`
		INSERT INTO bookmark (id, user_id, target_type, target_id, created_at)
		VALUES ('b1', 'ghost', 'session', 's1', $1)
	`, now)
	if !IsForeignKeyViolation(err) {
		t.Errorf("Expected foreign key violation for unknown user, got %v", err)
	}

	if IsUniqueViolation(nil) || IsForeignKeyViolation(nil) {
		t.Error("nil is not a violation")
	}
	if IsUniqueViolation(errors.New("boom")) {
		t.Error("Plain errors are not violations")
	}
}

func TestWithTx(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	insert := func(tx *sql.Tx, id string) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO app_user (id, email, name, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)
		`, id, id+"@example.com", id, now)
		return err
	}

	if err := WithTx(ctx, conn, func(tx *sql.Tx) error { return insert(tx, "kept") }); err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}

	boom := errors.New("boom")
	err := WithTx(ctx, conn, func(tx *sql.Tx) error {
		if err := insert(tx, "dropped"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Expected fn error to be returned, got %v", err)
	}

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM app_user`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Expected only the committed row, got %d rows", n)
	}
}
