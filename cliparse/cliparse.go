package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           int
	DatabaseURL    string
	DatabaseType   string
	AdminKeySalt   string
	VoterTokenSalt string
	CastRetries    int
	CastBackoff    time.Duration
	TallyCacheTTL  time.Duration
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var backoffMS, cacheTTLMS int

	fs := flag.NewFlagSet("ballotbox", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Vote ledger tuning
	fs.IntVar(&cfg.CastRetries, "cast-retries", 0, "Max attempts for a vote transaction hitting transient conflicts")
	fs.IntVar(&backoffMS, "cast-backoff-ms", 0, "Base backoff between cast retries, in milliseconds")
	fs.IntVar(&cacheTTLMS, "tally-cache-ttl-ms", 0, "Tally read cache TTL, in milliseconds (0 disables)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.StringVar(&cfg.VoterTokenSalt, "voter-salt", "", "Voter token salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3319 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.CastRetries == 0 {
		cfg.CastRetries = envInt("CAST_RETRIES", 3)
	}
	if cfg.CastRetries < 1 {
		return Config{}, errors.New("cast retries must be at least 1")
	}
	if backoffMS == 0 {
		backoffMS = envInt("CAST_BACKOFF_MS", 25)
	}
	cfg.CastBackoff = time.Duration(backoffMS) * time.Millisecond

	if cacheTTLMS == 0 {
		cacheTTLMS = envInt("TALLY_CACHE_TTL_MS", 2000)
	}
	if cacheTTLMS < 0 {
		cacheTTLMS = 0
	}
	cfg.TallyCacheTTL = time.Duration(cacheTTLMS) * time.Millisecond

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	if cfg.VoterTokenSalt == "" {
		cfg.VoterTokenSalt = os.Getenv("VOTER_TOKEN_SALT")
	}
	if cfg.VoterTokenSalt == "" {
		return Config{}, errors.New("VOTER_TOKEN_SALT required")
	}

	return cfg, nil
}

func envInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return fallback
}
