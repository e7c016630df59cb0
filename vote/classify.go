// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	sqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

// Classify maps a storage-level error onto the ErrorKind taxonomy.
//
// Both supported engines are handled: lib/pq errors carry SQLSTATE codes,
// modernc.org/sqlite errors carry SQLite extended result codes. Message
// matching remains as a fallback for errors that arrive stringified.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return classifyPostgres(pqErr)
	}

	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		return classifySQLite(sqErr)
	}

	return classifyMessage(err.Error())
}

func classifyPostgres(err *pq.Error) ErrorKind {
	switch err.Code {
	case "23505": // unique_violation
		// The only unique constraint in the cast path is (user_id, poll_id).
		return KindAlreadyVoted
	case "23503": // foreign_key_violation
		return classifyForeignKey(err.Constraint + " " + err.Message)
	case "40001", "40P01": // serialization_failure, deadlock_detected
		return KindTransientConflict
	}
	return KindInternal
}

func classifySQLite(err *sqlite.Error) ErrorKind {
	switch err.Code() {
	case sqlitelib.SQLITE_CONSTRAINT_UNIQUE, sqlitelib.SQLITE_CONSTRAINT_PRIMARYKEY:
		return KindAlreadyVoted
	case sqlitelib.SQLITE_CONSTRAINT_FOREIGNKEY:
		// SQLite doesn't say which FK failed; by the time the vote insert
		// runs both references were just re-checked, so a violation means
		// the row vanished mid-transaction. Treat as invalid option.
		return KindInvalidOption
	case sqlitelib.SQLITE_BUSY, sqlitelib.SQLITE_LOCKED:
		return KindTransientConflict
	}
	return KindInternal
}

// classifyMessage is the fallback for wrapped or stringified driver errors.
func classifyMessage(msg string) ErrorKind {
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "duplicate key value violates unique constraint"):
		return KindAlreadyVoted
	case strings.Contains(msg, "FOREIGN KEY constraint failed"),
		strings.Contains(msg, "violates foreign key constraint"):
		return classifyForeignKey(msg)
	case strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "could not serialize access"),
		strings.Contains(msg, "deadlock detected"):
		return KindTransientConflict
	}
	return KindInternal
}

func classifyForeignKey(detail string) ErrorKind {
	switch {
	case strings.Contains(detail, "option"):
		return KindInvalidOption
	case strings.Contains(detail, "poll"):
		return KindPollNotFound
	}
	return KindInvalidOption
}
