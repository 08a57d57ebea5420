// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			// Verify it's valid hex
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	// Test randomness - two IDs should be different
	id1 := NewID()
	id2 := NewID()
	if id1 == id2 {
		t.Error("NewID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestIssueAndParseToken(t *testing.T) {
	secret := "test-secret"
	id := Identity{UserID: "user-1", Email: "a@example.com", Name: "Alice"}

	token, err := IssueToken(id, secret, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	got, err := ParseToken(token, secret)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if got != id {
		t.Errorf("ParseToken() = %+v, want %+v", got, id)
	}
}

func TestParseToken_Rejects(t *testing.T) {
	secret := "test-secret"
	valid, _ := IssueToken(Identity{UserID: "u"}, secret, time.Hour)
	expired, _ := IssueToken(Identity{UserID: "u"}, secret, -time.Hour)

	// HS384 should be refused even with the right secret
	hs384 := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.RegisteredClaims{
		Subject:   "u",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	wrongAlg, _ := hs384.SignedString([]byte(secret))

	// No subject
	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	noSubject, _ := noSub.SignedString([]byte(secret))

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{"empty", "", secret, ErrMissingToken},
		{"garbage", "not-a-token", secret, ErrInvalidToken},
		{"wrong secret", valid, "other", ErrInvalidToken},
		{"expired", expired, secret, ErrInvalidToken},
		{"wrong algorithm", wrongAlg, secret, ErrInvalidToken},
		{"missing subject", noSubject, secret, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.token, tt.secret)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseToken() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIssueToken_Validation(t *testing.T) {
	if _, err := IssueToken(Identity{}, "s", time.Hour); err == nil {
		t.Error("expected error for empty user id")
	}
	if _, err := IssueToken(Identity{UserID: "u"}, "", time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer   abc  ", "abc"},
		{"BEARER x.y.z", "x.y.z"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := BearerToken(tt.header); got != tt.want {
			t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
