// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

// ErrorKind is the stable, storage-engine-independent taxonomy for vote
// rejection. Callers translate kinds into transport semantics; raw storage
// error text never crosses this boundary.
type ErrorKind int

const (
	KindNone ErrorKind = iota

	// NotAuthenticated: no caller identity was presented.
	KindNotAuthenticated

	// PollNotFound: the poll id is unknown.
	KindPollNotFound

	// PollExpired: the poll's expiry has passed.
	KindPollExpired

	// InvalidOption: the option is absent or belongs to a different poll.
	KindInvalidOption

	// AlreadyVoted: the uniqueness constraint says this voter already has a
	// committed vote for this poll. An expected outcome, not a failure.
	KindAlreadyVoted

	// TransientConflict: a storage-level serialization/deadlock/busy error.
	// Safe to retry; a transaction that hit one never committed.
	KindTransientConflict

	// KindInternal: anything unexpected. Surfaced generically.
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return ""
	case KindNotAuthenticated:
		return "not_authenticated"
	case KindPollNotFound:
		return "poll_not_found"
	case KindPollExpired:
		return "poll_expired"
	case KindInvalidOption:
		return "invalid_option"
	case KindAlreadyVoted:
		return "already_voted"
	case KindTransientConflict:
		return "transient_conflict"
	default:
		return "internal_error"
	}
}

// Retryable reports whether an attempt that ended with this kind may be
// retried without risking a double vote.
func (k ErrorKind) Retryable() bool {
	return k == KindTransientConflict
}
