// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"12 bytes", 12, 24},
		{"16 bytes", 16, 32},
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
	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestGenerateAdminKey(t *testing.T) {
	key := GenerateAdminKey("poll123", "secret-salt")

	if key == "" {
		t.Error("GenerateAdminKey() returned empty string")
	}

	// Should be deterministic
	if key != GenerateAdminKey("poll123", "secret-salt") {
		t.Error("GenerateAdminKey() is not deterministic")
	}

	// Different inputs should produce different keys
	if key == GenerateAdminKey("poll124", "secret-salt") {
		t.Error("GenerateAdminKey() produced same key for different poll IDs")
	}
	if key == GenerateAdminKey("poll123", "other-salt") {
		t.Error("GenerateAdminKey() produced same key for different salts")
	}

	// Should be URL-safe (no padding)
	if strings.Contains(key, "=") {
		t.Error("GenerateAdminKey() contains padding characters")
	}
}

func TestValidateAdminKey(t *testing.T) {
	key := GenerateAdminKey("poll123", "salt")

	if err := ValidateAdminKey("poll123", key, "salt"); err != nil {
		t.Errorf("ValidateAdminKey() rejected valid key: %v", err)
	}
	if err := ValidateAdminKey("poll123", key+"x", "salt"); err == nil {
		t.Error("ValidateAdminKey() accepted tampered key")
	}
	if err := ValidateAdminKey("other-poll", key, "salt"); err == nil {
		t.Error("ValidateAdminKey() accepted key for wrong poll")
	}
	if err := ValidateAdminKey("poll123", key, "wrong-salt"); err == nil {
		t.Error("ValidateAdminKey() accepted key under wrong salt")
	}
}

func TestVoterTokenRoundTrip(t *testing.T) {
	userID, err := GenerateID(12)
	if err != nil {
		t.Fatal(err)
	}

	token := IssueVoterToken(userID, "voter-salt")

	got, err := VerifyVoterToken(token, "voter-salt")
	if err != nil {
		t.Fatalf("VerifyVoterToken() error = %v", err)
	}
	if got != userID {
		t.Errorf("VerifyVoterToken() = %q, want %q", got, userID)
	}
}

func TestVerifyVoterToken_Rejects(t *testing.T) {
	token := IssueVoterToken("abc123", "salt")

	tests := []struct {
		name  string
		token string
		salt  string
	}{
		{"empty", "", "salt"},
		{"no separator", "abc123", "salt"},
		{"missing signature", "abc123.", "salt"},
		{"missing user id", ".sig", "salt"},
		{"tampered user id", "abd123." + strings.SplitN(token, ".", 2)[1], "salt"},
		{"tampered signature", "abc123.0000000", "salt"},
		{"wrong salt", token, "other-salt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := VerifyVoterToken(tt.token, tt.salt); err == nil {
				t.Error("expected ErrInvalidToken, got nil")
			}
		})
	}
}
