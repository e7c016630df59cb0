// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrOptionNotFound = errors.New("option not found")

// TallyReader is the read path for option counts. Implemented by Tallies
// and, optionally, by the TTL cache decorator around it. Never used by the
// write path - duplicate decisions come from the constraint, not a cache.
type TallyReader interface {
	GetOptionTally(ctx context.Context, optionID string) (int, error)
}

// Tallies reads the stored per-option counters. The counter is maintained
// by the ledger on every committed cast, which is what makes an O(1) read
// here safe instead of recounting vote rows.
type Tallies struct {
	db *sql.DB
}

func NewTallies(db *sql.DB) *Tallies {
	return &Tallies{db: db}
}

// GetOptionTally returns the stored counter for one option.
func (t *Tallies) GetOptionTally(ctx context.Context, optionID string) (int, error) {
	var count int
	err := t.db.QueryRowContext(ctx, `
		SELECT votes FROM poll_options WHERE id = $1
	`, optionID).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, ErrOptionNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("read tally: %w", err)
	}
	return count, nil
}

// Repair records one option whose stored counter disagreed with the count
// of committed vote rows.
type Repair struct {
	OptionID string
	Stored   int
	Counted  int
}

// Reconcile recomputes every option tally of a poll from its vote rows and
// repairs drift in place. Drift cannot come from the cast path; it appears
// only after out-of-band vote deletion (privileged moderation), which is
// why this runs on demand rather than on a schedule.
func (t *Tallies) Reconcile(ctx context.Context, pollID string) ([]Repair, error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin reconcile: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT o.id, o.votes, COUNT(v.id)
		FROM poll_options o
		LEFT JOIN votes v ON v.option_id = o.id
		WHERE o.poll_id = $1
		GROUP BY o.id, o.votes
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("recount tallies: %w", err)
	}
	defer rows.Close()

	var repairs []Repair
	for rows.Next() {
		var r Repair
		if err := rows.Scan(&r.OptionID, &r.Stored, &r.Counted); err != nil {
			return nil, fmt.Errorf("scan recount: %w", err)
		}
		if r.Stored != r.Counted {
			repairs = append(repairs, r)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recount tallies: %w", err)
	}
	rows.Close()

	for _, r := range repairs {
		if _, err := tx.ExecContext(ctx, `
			UPDATE poll_options SET votes = $1 WHERE id = $2
		`, r.Counted, r.OptionID); err != nil {
			return nil, fmt.Errorf("repair tally: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit reconcile: %w", err)
	}
	return repairs, nil
}

// CountOptions returns how many options a poll has; used by the reconcile
// endpoint to report coverage.
func (t *Tallies) CountOptions(ctx context.Context, pollID string) (int, error) {
	var n int
	err := t.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM poll_options WHERE poll_id = $1
	`, pollID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count options: %w", err)
	}
	return n, nil
}
