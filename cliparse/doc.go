// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3319)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - VoterTokenSalt: Secret for voter token HMAC (required)
  - CastRetries: Attempt budget for vote transactions hitting transient conflicts
  - CastBackoff: Base delay between cast retries
  - TallyCacheTTL: Read-path tally cache lifetime (0 disables the cache)

# CLI Flags

	-p                  Server port
	-d                  Database URL
	-t                  Database type
	-cast-retries       Cast attempt budget
	-cast-backoff-ms    Cast retry backoff (ms)
	-tally-cache-ttl-ms Tally cache TTL (ms)
	-admin-salt         Admin key salt
	-voter-salt         Voter token salt

# Environment Variables

Flags fall back to environment variables:

	PORT               → -p
	DATABASE_URL       → -d
	DATABASE_TYPE      → -t
	CAST_RETRIES       → -cast-retries
	CAST_BACKOFF_MS    → -cast-backoff-ms
	TALLY_CACHE_TTL_MS → -tally-cache-ttl-ms
	ADMIN_KEY_SALT     → -admin-salt
	VOTER_TOKEN_SALT   → -voter-salt

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - DATABASE_TYPE must be sqlite or postgres
  - ADMIN_KEY_SALT must be provided
  - VOTER_TOKEN_SALT must be provided
*/
package cliparse
