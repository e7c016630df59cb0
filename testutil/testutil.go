// Copyright (c) 2025 Mara Hutchins.
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

	"github.com/google/uuid"

	"github.com/mhutchins/ballotbox/auth"
	"github.com/mhutchins/ballotbox/cliparse"
	"github.com/mhutchins/ballotbox/db"
)

// SetupTestDB opens a fresh in-memory SQLite database with the full schema.
// The pool is capped at one connection: it keeps the shared in-memory
// database alive, and it serializes concurrent writers at the pool the way
// Postgres serializes them at the row - so the concurrency tests exercise
// real interleavings without a database server.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	name, err := auth.GenerateID(8)
	if err != nil {
		t.Fatalf("Failed to name test database: %v", err)
	}

	conn, err := sql.Open("sqlite",
		"file:test_"+name+"?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3319,
		DatabaseURL:    ":memory:",
		DatabaseType:   "sqlite",
		AdminKeySalt:   "test-admin-salt",
		VoterTokenSalt: "test-voter-salt",
		CastRetries:    3,
		CastBackoff:    5 * time.Millisecond,
		TallyCacheTTL:  0, // reads hit the database unless a test opts in
	}
}

// CreateTestPoll creates a poll and returns its ID and admin key.
// expiresAt nil means the poll never expires.
func CreateTestPoll(t *testing.T, conn *sql.DB, cfg cliparse.Config, expiresAt *time.Time) (pollID, adminKey string) {
	t.Helper()

	pollID, _ = auth.GenerateID(16)
	adminKey = auth.GenerateAdminKey(pollID, cfg.AdminKeySalt)

	_, err := conn.Exec(`
		INSERT INTO polls (id, title, expires_at, created_at)
		VALUES ($1, 'Test Poll', $2, $3)
	`, pollID, expiresAt, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return pollID, adminKey
}

// AddTestOption adds an option to a poll and returns the option ID
func AddTestOption(t *testing.T, conn *sql.DB, pollID, label string) string {
	t.Helper()

	optionID, _ := auth.GenerateID(12)
	_, err := conn.Exec(`
		INSERT INTO poll_options (id, poll_id, label, votes)
		VALUES ($1, $2, $3, 0)
	`, optionID, pollID, label)
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}

	return optionID
}

// RegisterTestVoter mints a user ID and its signed voter token
func RegisterTestVoter(t *testing.T, cfg cliparse.Config) (userID, token string) {
	t.Helper()

	userID, err := auth.GenerateID(12)
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}
	return userID, auth.IssueVoterToken(userID, cfg.VoterTokenSalt)
}

// InsertRawVote writes a vote row WITHOUT touching the option tally.
// Only useful for manufacturing tally drift in reconciliation tests -
// real votes must go through the ledger.
func InsertRawVote(t *testing.T, conn *sql.DB, pollID, optionID, userID string) string {
	t.Helper()

	voteID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO votes (id, user_id, poll_id, option_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, voteID, userID, pollID, optionID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to insert raw vote: %v", err)
	}
	return voteID
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
