// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/mhutchins/ballotbox/cliparse"
)

// Open connects to the configured database engine and tunes the pool.
// Callers still need to Ping and CreateSchema.
func Open(cfg cliparse.Config) (*sql.DB, error) {
	switch cfg.DatabaseType {
	case "postgres":
		conn, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return conn, nil

	case "sqlite":
		conn, err := sql.Open("sqlite", sqliteDSN(cfg.DatabaseURL))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// SQLite allows one writer; a single pooled connection turns writer
		// collisions into queueing instead of SQLITE_BUSY errors.
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
		return conn, nil

	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
}

// sqliteDSN ensures foreign keys and a busy timeout are set unless the
// caller already passed explicit pragmas.
func sqliteDSN(url string) string {
	if strings.Contains(url, "_pragma") {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
