package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// unset registers cleanup through t.Setenv and then removes the variable so
// the dotenv file is allowed to provide it.
func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeDotEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	return path
}

func TestLoadFrom_ReadsDotEnvValues(t *testing.T) {
	unset(t, "APP_ENV", "PORT", "DB_PATH", "PROPOSAL_VALIDITY_DAYS", "LOADOUT_MARKUP",
		"LOADOUT_CACHE_TTL", "YARD_LAT", "YARD_LON", "ADMIN_EMAIL", "ADMIN_PASSWORD", "SESSION_SECRET")

	path := writeDotEnv(t, `
# comment
APP_ENV=production
export PORT=9090
DB_PATH="/var/lib/arborcost.db"
PROPOSAL_VALIDITY_DAYS=45
LOADOUT_MARKUP=2.5
LOADOUT_CACHE_TTL=1m
YARD_LAT=33.75
YARD_LON=-84.39
ADMIN_EMAIL=admin@example.com
ADMIN_PASSWORD='secret'
SESSION_SECRET=abc
`)

	cfg := LoadFrom(path)

	if cfg.Env != "production" || cfg.IsDev() {
		t.Fatalf("Env=%q, want production", cfg.Env)
	}
	if cfg.Port != "9090" {
		t.Fatalf("Port=%q, want 9090", cfg.Port)
	}
	if cfg.DBPath != "/var/lib/arborcost.db" {
		t.Fatalf("DBPath=%q", cfg.DBPath)
	}
	if cfg.ProposalValidity != 45*24*time.Hour {
		t.Fatalf("ProposalValidity=%s", cfg.ProposalValidity)
	}
	if cfg.LoadoutMarkup != 2.5 || cfg.LoadoutCacheTTL != time.Minute {
		t.Fatalf("markup=%v ttl=%s", cfg.LoadoutMarkup, cfg.LoadoutCacheTTL)
	}
	if !cfg.HasYard || cfg.YardLat != 33.75 || cfg.YardLon != -84.39 {
		t.Fatalf("yard=(%v,%v,%v)", cfg.YardLat, cfg.YardLon, cfg.HasYard)
	}
	if cfg.AdminPassword != "secret" {
		t.Fatalf("AdminPassword=%q, want secret", cfg.AdminPassword)
	}
	if len(cfg.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", cfg.Warnings)
	}
}

func TestLoadFrom_DoesNotOverwriteExistingEnv(t *testing.T) {
	t.Setenv("PORT", "7000")

	cfg := LoadFrom(writeDotEnv(t, "PORT=9090\n"))

	if cfg.Port != "7000" {
		t.Fatalf("Port=%q, want 7000", cfg.Port)
	}
}

func TestLoadFrom_DefaultsWhenFileMissing(t *testing.T) {
	unset(t, "APP_ENV", "PORT", "DB_PATH", "PROPOSAL_VALIDITY_DAYS", "LOADOUT_MARKUP",
		"LOADOUT_CACHE_TTL", "YARD_LAT", "YARD_LON")

	cfg := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))

	if !cfg.IsDev() || cfg.Port != defaultPort || cfg.DBPath != defaultDBPath {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ProposalValidity != 30*24*time.Hour {
		t.Fatalf("ProposalValidity=%s, want 30 days", cfg.ProposalValidity)
	}
	if cfg.LoadoutMarkup != defaultLoadoutMarkup || cfg.LoadoutCacheTTL != defaultLoadoutTTL {
		t.Fatalf("markup=%v ttl=%s", cfg.LoadoutMarkup, cfg.LoadoutCacheTTL)
	}
	if cfg.HasYard {
		t.Fatalf("expected no yard without coordinates")
	}
	for _, w := range cfg.Warnings {
		if strings.Contains(w, "missing.env") {
			t.Fatalf("missing dotenv should not warn: %v", w)
		}
	}
}

func TestLoadFrom_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("PROPOSAL_VALIDITY_DAYS", "-3")
	t.Setenv("LOADOUT_MARKUP", "lots")
	t.Setenv("LOADOUT_CACHE_TTL", "soon")
	t.Setenv("YARD_LAT", "north")
	t.Setenv("YARD_LON", "-84.39")

	cfg := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))

	if cfg.ProposalValidity != 30*24*time.Hour {
		t.Fatalf("ProposalValidity=%s, want default", cfg.ProposalValidity)
	}
	if cfg.LoadoutMarkup != defaultLoadoutMarkup || cfg.LoadoutCacheTTL != defaultLoadoutTTL {
		t.Fatalf("markup=%v ttl=%s", cfg.LoadoutMarkup, cfg.LoadoutCacheTTL)
	}
	if cfg.HasYard {
		t.Fatalf("expected malformed yard to be ignored")
	}
	if len(cfg.Warnings) < 4 {
		t.Fatalf("expected warnings for each malformed value, got %v", cfg.Warnings)
	}
}

func TestLoadFrom_ValidityDaysAreBounded(t *testing.T) {
	t.Setenv("PROPOSAL_VALIDITY_DAYS", "250000")

	cfg := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))

	if cfg.ProposalValidity != 30*24*time.Hour {
		t.Fatalf("ProposalValidity=%s, want default", cfg.ProposalValidity)
	}
}
