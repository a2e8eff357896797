package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnv            = "development"
	defaultDBPath         = "./dev.db"
	defaultPort           = "8080"
	defaultValidityDays   = 30
	maxValidityDays       = 3650
	defaultLoadoutMarkup  = 3.0
	defaultLoadoutTTL     = 30 * time.Second
	defaultCalendarDir    = "./data/calendar"
	defaultExportDir      = "./data/exports"
	defaultGeocoderURL    = "https://nominatim.openstreetmap.org"
	defaultGeocoderAgent  = "arborcost/1.0"
	defaultGeocodeTimeout = 5 * time.Second
	defaultCompanyName    = "Tree Service Proposal"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string
	AdminEmail    string
	AdminPassword string
	SessionSecret string
	DBPath        string
	Port          string
	CompanyName   string

	ProposalValidity time.Duration
	LoadoutMarkup    float64
	LoadoutCacheTTL  time.Duration

	CalendarDir    string
	ExportDir      string
	GeocoderURL    string
	GeocoderAgent  string
	GeocodeTimeout time.Duration

	// Yard is the depot location customers' distances are measured from.
	// HasYard is false when either coordinate is unset.
	YardLat float64
	YardLon float64
	HasYard bool

	// Warnings collects problems that fell back to defaults. The logger is not
	// available yet while config loads.
	Warnings []string
}

// IsDev reports whether the app runs in development mode.
func (c Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// Load reads .env (if present) and the environment and returns a populated Config.
func Load() Config {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit dotenv path. Variables already present in
// the environment win over the file.
func LoadFrom(path string) Config {
	var warnings []string
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		warnings = append(warnings, fmt.Sprintf("read %s: %v", path, err))
	}

	cfg := Config{
		Env:           stringOr("APP_ENV", defaultEnv),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		DBPath:        stringOr("DB_PATH", defaultDBPath),
		Port:          stringOr("PORT", defaultPort),
		CalendarDir:   stringOr("CALENDAR_DIR", defaultCalendarDir),
		ExportDir:     stringOr("EXPORT_DIR", defaultExportDir),
		GeocoderURL:   stringOr("GEOCODER_URL", defaultGeocoderURL),
		GeocoderAgent: stringOr("GEOCODER_USER_AGENT", defaultGeocoderAgent),
		CompanyName:   stringOr("COMPANY_NAME", defaultCompanyName),
	}

	days := intOr("PROPOSAL_VALIDITY_DAYS", defaultValidityDays, &warnings)
	if days <= 0 || days > maxValidityDays {
		warnings = append(warnings, fmt.Sprintf("PROPOSAL_VALIDITY_DAYS must be between 1 and %d, using %d", maxValidityDays, defaultValidityDays))
		days = defaultValidityDays
	}
	cfg.ProposalValidity = time.Duration(days) * 24 * time.Hour

	cfg.LoadoutMarkup = floatOr("LOADOUT_MARKUP", defaultLoadoutMarkup, &warnings)
	if cfg.LoadoutMarkup <= 0 {
		warnings = append(warnings, fmt.Sprintf("LOADOUT_MARKUP must be positive, using %v", defaultLoadoutMarkup))
		cfg.LoadoutMarkup = defaultLoadoutMarkup
	}
	cfg.LoadoutCacheTTL = durationOr("LOADOUT_CACHE_TTL", defaultLoadoutTTL, &warnings)
	cfg.GeocodeTimeout = durationOr("GEOCODER_TIMEOUT", defaultGeocodeTimeout, &warnings)

	if os.Getenv("YARD_LAT") != "" && os.Getenv("YARD_LON") != "" {
		var bad bool
		cfg.YardLat, bad = parseFloat("YARD_LAT", &warnings)
		lon, badLon := parseFloat("YARD_LON", &warnings)
		cfg.YardLon = lon
		cfg.HasYard = !bad && !badLon
	}

	if cfg.AdminEmail == "" {
		warnings = append(warnings, "ADMIN_EMAIL is not set")
	}
	if cfg.AdminPassword == "" {
		warnings = append(warnings, "ADMIN_PASSWORD is not set")
	}
	if cfg.SessionSecret == "" {
		warnings = append(warnings, "SESSION_SECRET is not set, sessions use a random per-process key")
	}

	cfg.Warnings = warnings
	return cfg
}

func stringOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intOr(key string, fallback int, warnings *[]string) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("%s=%q is not an integer, using %d", key, raw, fallback))
		return fallback
	}
	return v
}

func floatOr(key string, fallback float64, warnings *[]string) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("%s=%q is not a number, using %v", key, raw, fallback))
		return fallback
	}
	return v
}

func durationOr(key string, fallback time.Duration, warnings *[]string) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v < 0 {
		*warnings = append(*warnings, fmt.Sprintf("%s=%q is not a duration, using %s", key, raw, fallback))
		return fallback
	}
	return v
}

// parseFloat returns the value and whether it was malformed.
func parseFloat(key string, warnings *[]string) (float64, bool) {
	raw := os.Getenv(key)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("%s=%q is not a number, ignoring yard location", key, raw))
		return 0, true
	}
	return v, false
}
