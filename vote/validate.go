// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Outcome is the advisory verdict of the validation pipeline. A passing
// outcome does NOT guarantee the cast will succeed - a racing caller can
// still win between validation and commit. The ledger is the authority.
type Outcome struct {
	OK      bool
	Kind    ErrorKind
	Message string
}

func pass() Outcome {
	return Outcome{OK: true}
}

func reject(kind ErrorKind, message string) Outcome {
	return Outcome{Kind: kind, Message: message}
}

// Pipeline runs the cheap, read-only pre-checks for a vote. It exists to
// reject obviously-bad requests without opening a write transaction and to
// produce good error messages on the common path.
type Pipeline struct {
	db *sql.DB
}

func NewPipeline(db *sql.DB) *Pipeline {
	return &Pipeline{db: db}
}

// Validate runs the checks in order, short-circuiting on the first failure:
// caller identity, poll existence, poll expiry, option ownership, prior vote.
// Expiry is compared against a single "now" read once at entry.
//
// The returned error is reserved for storage failures; every business
// rejection travels in the Outcome.
func (p *Pipeline) Validate(ctx context.Context, pollID, optionID, userID string) (Outcome, error) {
	now := time.Now().UTC()

	if userID == "" {
		return reject(KindNotAuthenticated, "no voter identity"), nil
	}

	var expires sql.NullTime
	err := p.db.QueryRowContext(ctx, `
		SELECT expires_at FROM polls WHERE id = $1
	`, pollID).Scan(&expires)
	if err == sql.ErrNoRows {
		return reject(KindPollNotFound, "poll not found"), nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("validate poll: %w", err)
	}

	if expires.Valid && !expires.Time.After(now) {
		return reject(KindPollExpired, "poll has expired"), nil
	}

	var ownerID string
	err = p.db.QueryRowContext(ctx, `
		SELECT poll_id FROM poll_options WHERE id = $1
	`, optionID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return reject(KindInvalidOption, "option not found"), nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("validate option: %w", err)
	}
	if ownerID != pollID {
		return reject(KindInvalidOption, "option belongs to a different poll"), nil
	}

	var exists bool
	err = p.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM votes WHERE user_id = $1 AND poll_id = $2
		)
	`, userID, pollID).Scan(&exists)
	if err != nil {
		return Outcome{}, fmt.Errorf("validate prior vote: %w", err)
	}
	if exists {
		return reject(KindAlreadyVoted, "voter already has a vote on this poll"), nil
	}

	return pass(), nil
}
