// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package vote is the vote recording and integrity core.

# Two layers, one authority

Duplicate prevention is checked twice on purpose:

  - Pipeline.Validate runs cheap read-only pre-checks (identity, poll
    exists, not expired, option belongs to poll, no prior vote) and
    short-circuits on the first failure. It is advisory: two racing
    callers can both pass it.
  - Ledger.CastVote is the correctness boundary. One transaction
    re-verifies poll and option, inserts the vote record, and increments
    the tally. The UNIQUE(user_id, poll_id) constraint on the insert is
    the sole mechanism that decides duplicates; under N concurrent casts
    for the same voter exactly one commits and the rest observe
    AlreadyVoted.

The pipeline and the ledger each read their own clock; they can disagree
about a poll expiring between them, and when they do the ledger wins.

# Invariants

  - At most one vote row per (user_id, poll_id), enforced by the schema.
  - A vote row's option always belongs to the vote's poll, re-checked
    inside the cast transaction.
  - An option's stored counter equals its committed vote rows: insert and
    increment share a transaction, so neither is ever visible without the
    other. Privileged out-of-band deletion can break this; Tallies.Reconcile
    repairs it.

# Error taxonomy

Expected rejections travel as an ErrorKind inside Outcome/CastResult, not
as Go errors. Classify maps engine-level failures (Postgres SQLSTATE,
SQLite result codes, message fallbacks) onto the taxonomy; transient
conflicts are retried by the ledger with bounded backoff before
surfacing.

# Reads

Tallies reads the stored counters (O(1), no recounting) and CachedTallies
optionally decorates that read path with a short TTL. The cache is never
consulted by the write path.
*/
package vote
