// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ballotbox API server.

ballotbox is a vote recording service with two hard guarantees: each
voter casts at most one vote per poll, ever, even under concurrent
duplicate submissions; and an option's stored tally always equals its
committed vote records.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=ballotbox.db ADMIN_KEY_SALT=... VOTER_TOKEN_SALT=... go run main.go

Or against Postgres:

	go run main.go -t postgres -d "postgres://..."

A .env file in the working directory is loaded automatically.

# Configuration

Required settings:

  - DATABASE_URL (-d): connection string (file path for sqlite)
  - ADMIN_KEY_SALT (-admin-salt): secret for admin key HMAC
  - VOTER_TOKEN_SALT (-voter-salt): secret for voter token HMAC

Optional settings:

  - PORT (-p): server port (default: 3319)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - CAST_RETRIES, CAST_BACKOFF_MS: transient-conflict retry budget
  - TALLY_CACHE_TTL_MS: read-path tally cache (0 disables)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - vote: the core - validation pipeline, transactional vote ledger,
    error classification, tally reads
  - handlers: HTTP request handlers (polls, voting, results, admin)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: request/response types
  - auth: voter tokens and admin keys
  - db: engine selection and schema
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
