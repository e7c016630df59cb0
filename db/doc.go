// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns database connectivity and schema creation.

# Engines

Two engines are supported, selected by Config.DatabaseType:

  - postgres: github.com/lib/pq, the production engine
  - sqlite: modernc.org/sqlite (cgo-free), for local use and tests

Open tunes the pool per engine. SQLite gets a single pooled connection so
concurrent writers queue on the pool instead of surfacing SQLITE_BUSY,
and foreign-key enforcement plus a busy timeout via DSN pragmas.

# Schema

	polls(id, title, expires_at, created_at)
	poll_options(id, poll_id, label, votes)
	votes(id, user_id, poll_id, option_id, created_at, UNIQUE(user_id, poll_id))

The identical DDL runs on both engines: $N placeholders in all queries,
application-written timestamps, no engine-specific defaults.

The UNIQUE(user_id, poll_id) constraint on votes is load-bearing: it is
the one mechanism that makes duplicate-vote prevention correct under
concurrency. See package vote.
*/
package db
