// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// CastResult is the terminal state of one vote attempt. Accepted casts carry
// the option's post-increment count, read back inside the same transaction so
// it is never stale under concurrent increments.
type CastResult struct {
	Accepted bool
	NewCount int
	Kind     ErrorKind
}

// Ledger owns the atomic vote-casting operation. It is the correctness
// boundary: the uniqueness constraint on votes(user_id, poll_id) decides
// duplicates, and the tally increment commits or rolls back with the vote
// row. The ledger holds no in-process state and is safe for any number of
// concurrent callers, including multiple processes behind a load balancer.
type Ledger struct {
	db       *sql.DB
	attempts int
	backoff  time.Duration
}

const (
	defaultAttempts = 3
	defaultBackoff  = 25 * time.Millisecond
)

// NewLedger wraps a storage handle. attempts and backoff bound the retry
// loop for transient conflicts; zero values select defaults.
func NewLedger(db *sql.DB, attempts int, backoff time.Duration) *Ledger {
	if attempts < 1 {
		attempts = defaultAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	return &Ledger{db: db, attempts: attempts, backoff: backoff}
}

// CastVote records one vote atomically. Inside a single transaction it
// re-verifies poll expiry and option ownership, inserts the vote record,
// and increments the option tally.
//
// Expected rejections (duplicate, expired, invalid option, unknown poll)
// come back in the CastResult with a nil error. A non-nil error means the
// attempt failed for infrastructure reasons; its Kind is KindInternal or,
// when the retry budget ran out, KindTransientConflict.
//
// Retrying is always safe: a retried attempt either lands AlreadyVoted
// (the earlier attempt committed after all) or runs fresh (it never did).
func (l *Ledger) CastVote(ctx context.Context, pollID, optionID, userID string) (CastResult, error) {
	if userID == "" {
		return CastResult{Kind: KindNotAuthenticated}, nil
	}

	var lastErr error
	for attempt := 1; attempt <= l.attempts; attempt++ {
		if attempt > 1 {
			if err := l.wait(ctx, attempt); err != nil {
				return CastResult{Kind: KindInternal}, err
			}
		}

		res, err := l.castOnce(ctx, pollID, optionID, userID)
		if err == nil {
			return res, nil
		}

		kind := Classify(err)
		if kind != KindTransientConflict {
			return CastResult{Kind: KindInternal}, err
		}

		slog.Warn("vote transaction hit transient conflict",
			"poll_id", pollID,
			"option_id", optionID,
			"attempt", attempt,
		)
		lastErr = err
	}

	return CastResult{Kind: KindTransientConflict},
		fmt.Errorf("cast vote: retry budget exhausted: %w", lastErr)
}

func (l *Ledger) castOnce(ctx context.Context, pollID, optionID, userID string) (CastResult, error) {
	now := time.Now().UTC()

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return CastResult{}, fmt.Errorf("begin cast transaction: %w", err)
	}
	// No-op after a successful Commit; rolls back every partial effect on
	// any other exit, including caller cancellation.
	defer tx.Rollback()

	// Re-verify the poll inside the transaction: it may have expired (or
	// been deleted) since the advisory validation ran.
	var expires sql.NullTime
	err = tx.QueryRowContext(ctx, `
		SELECT expires_at FROM polls WHERE id = $1
	`, pollID).Scan(&expires)
	if err == sql.ErrNoRows {
		return CastResult{Kind: KindPollNotFound}, nil
	}
	if err != nil {
		return CastResult{}, fmt.Errorf("load poll: %w", err)
	}
	if expires.Valid && !expires.Time.After(now) {
		return CastResult{Kind: KindPollExpired}, nil
	}

	// Re-verify the option belongs to this poll.
	var ownerID string
	err = tx.QueryRowContext(ctx, `
		SELECT poll_id FROM poll_options WHERE id = $1
	`, optionID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return CastResult{Kind: KindInvalidOption}, nil
	}
	if err != nil {
		return CastResult{}, fmt.Errorf("load option: %w", err)
	}
	if ownerID != pollID {
		return CastResult{Kind: KindInvalidOption}, nil
	}

	// The insert is the authoritative duplicate check. Two racing casts for
	// the same (user, poll) both reach this point; the constraint lets
	// exactly one through.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO votes (id, user_id, poll_id, option_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), userID, pollID, optionID, now)
	if err != nil {
		if kind := Classify(err); kind == KindAlreadyVoted {
			return CastResult{Kind: KindAlreadyVoted}, nil
		}
		return CastResult{}, fmt.Errorf("insert vote: %w", err)
	}

	// Tally increment rides in the same transaction as the insert, and the
	// new count is read back from the same statement.
	var newCount int
	err = tx.QueryRowContext(ctx, `
		UPDATE poll_options SET votes = votes + 1 WHERE id = $1 RETURNING votes
	`, optionID).Scan(&newCount)
	if err != nil {
		return CastResult{}, fmt.Errorf("increment tally: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return CastResult{}, fmt.Errorf("commit vote: %w", err)
	}

	return CastResult{Accepted: true, NewCount: newCount}, nil
}

// wait sleeps for the attempt's backoff (doubling, with jitter) or returns
// early when the caller gives up.
func (l *Ledger) wait(ctx context.Context, attempt int) error {
	d := l.backoff << (attempt - 2)
	d += time.Duration(rand.Int63n(int64(l.backoff)))

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
