// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/mhutchins/ballotbox/testutil"
)

func TestClassify_PostgresCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *pq.Error
		want ErrorKind
	}{
		{"unique violation", &pq.Error{Code: "23505", Constraint: "votes_user_id_poll_id_key"}, KindAlreadyVoted},
		{"fk violation on option", &pq.Error{Code: "23503", Constraint: "votes_option_id_fkey"}, KindInvalidOption},
		{"fk violation on poll", &pq.Error{Code: "23503", Constraint: "votes_poll_id_fkey"}, KindPollNotFound},
		{"serialization failure", &pq.Error{Code: "40001"}, KindTransientConflict},
		{"deadlock", &pq.Error{Code: "40P01"}, KindTransientConflict},
		{"syntax error", &pq.Error{Code: "42601"}, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
			// Wrapping must not defeat classification
			wrapped := fmt.Errorf("insert vote: %w", tt.err)
			if got := Classify(wrapped); got != tt.want {
				t.Errorf("Classify(wrapped) = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassify_MessageFallbacks(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want ErrorKind
	}{
		{"sqlite unique", "UNIQUE constraint failed: votes.user_id, votes.poll_id", KindAlreadyVoted},
		{"pq unique text", `pq: duplicate key value violates unique constraint "votes_user_id_poll_id_key"`, KindAlreadyVoted},
		{"sqlite fk", "FOREIGN KEY constraint failed", KindInvalidOption},
		{"pq fk text", `pq: insert or update on table "votes" violates foreign key constraint "votes_option_id_fkey"`, KindInvalidOption},
		{"sqlite busy", "database is locked", KindTransientConflict},
		{"pg serialization text", "pq: could not serialize access due to concurrent update", KindTransientConflict},
		{"pg deadlock text", "pq: deadlock detected", KindTransientConflict},
		{"anything else", "connection reset by peer", KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(errors.New(tt.msg)); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.msg, got, tt.want)
			}
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	if got := Classify(nil); got != KindNone {
		t.Errorf("Classify(nil) = %s, want none", got)
	}
}

// TestClassify_LiveSQLiteErrors runs real constraint violations through the
// driver so classification is tested against errors as they actually
// arrive, not just hand-built ones.
func TestClassify_LiveSQLiteErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	pollID, _ := testutil.CreateTestPoll(t, db, cfg, nil)
	optionID := testutil.AddTestOption(t, db, pollID, "A")
	userID, _ := testutil.RegisterTestVoter(t, cfg)

	insert := func(id, user, poll, option string) error {
		_, err := db.Exec(`
			INSERT INTO votes (id, user_id, poll_id, option_id, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, id, user, poll, option, time.Now().UTC())
		return err
	}

	if err := insert("v1", userID, pollID, optionID); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	// Duplicate (user, poll)
	err := insert("v2", userID, pollID, optionID)
	if err == nil {
		t.Fatal("expected unique violation")
	}
	if got := Classify(err); got != KindAlreadyVoted {
		t.Errorf("duplicate insert classified as %s, want already_voted", got)
	}

	// Dangling option reference
	otherUser, _ := testutil.RegisterTestVoter(t, cfg)
	err = insert("v3", otherUser, pollID, "no-such-option")
	if err == nil {
		t.Fatal("expected foreign key violation")
	}
	if got := Classify(err); got != KindInvalidOption {
		t.Errorf("dangling option classified as %s, want invalid_option", got)
	}
}

func TestErrorKind_Strings(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindNone, ""},
		{KindNotAuthenticated, "not_authenticated"},
		{KindPollNotFound, "poll_not_found"},
		{KindPollExpired, "poll_expired"},
		{KindInvalidOption, "invalid_option"},
		{KindAlreadyVoted, "already_voted"},
		{KindTransientConflict, "transient_conflict"},
		{KindInternal, "internal_error"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}

	if KindAlreadyVoted.Retryable() {
		t.Error("AlreadyVoted must not be retryable")
	}
	if !KindTransientConflict.Retryable() {
		t.Error("TransientConflict must be retryable")
	}
}
