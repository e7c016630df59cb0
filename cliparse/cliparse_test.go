// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"
	"time"
)

func TestParseFlags_EnvVars(t *testing.T) {
	// Set env vars
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("DATABASE_TYPE", "postgres")
	os.Setenv("ADMIN_KEY_SALT", "test-salt")
	os.Setenv("VOTER_TOKEN_SALT", "test-voter")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-admin-salt", "s1", "-voter-salt", "s2"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-d", "file:test.db", "-admin-salt", "s1", "-voter-salt", "s2"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.CastRetries != 3 {
		t.Errorf("expected 3 cast retries, got %d", cfg.CastRetries)
	}
	if cfg.CastBackoff != 25*time.Millisecond {
		t.Errorf("expected 25ms backoff, got %s", cfg.CastBackoff)
	}
	if cfg.TallyCacheTTL != 2*time.Second {
		t.Errorf("expected 2s cache TTL, got %s", cfg.TallyCacheTTL)
	}
}

func TestParseFlags_MissingRequired(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	tests := []struct {
		name string
		args []string
	}{
		{"no database url", []string{"-admin-salt", "s1", "-voter-salt", "s2"}},
		{"no admin salt", []string{"-d", "file:test.db", "-voter-salt", "s2"}},
		{"no voter salt", []string{"-d", "file:test.db", "-admin-salt", "s1"}},
		{"bad database type", []string{"-d", "file:test.db", "-t", "mysql", "-admin-salt", "s1", "-voter-salt", "s2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
