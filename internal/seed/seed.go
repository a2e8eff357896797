package seed

import (
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/canopyworks/arborcost/internal/treescore"
)

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := seedAdmin(tx, cfg, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureServiceRates(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

// seedAdmin inserts the admin user, or rehashes its password when the
// configured one no longer matches.
func seedAdmin(tx *sql.Tx, cfg Config, stats *Stats) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	var hash string
	err := tx.QueryRow(`SELECT password_hash FROM users WHERE email = ?`, cfg.AdminEmail).Scan(&hash)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("check admin user existence: %w", err)
	default:
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(cfg.AdminPassword)) == nil {
			return nil
		}
	}

	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	newHash, hashErr := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), cost)
	if hashErr != nil {
		return fmt.Errorf("hash admin password: %w", hashErr)
	}

	if err == nil {
		if _, err := tx.Exec(`UPDATE users SET password_hash = ? WHERE email = ?`, string(newHash), cfg.AdminEmail); err != nil {
			return fmt.Errorf("update admin password: %w", err)
		}
		stats.Updates++
		return nil
	}

	if _, err := tx.Exec(`INSERT INTO users (email, password_hash) VALUES (?, ?)`, cfg.AdminEmail, string(newHash)); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

// ensureServiceRates stores the shipped rate for every service type that has
// no row yet. Existing rows are business edits and are left alone.
func ensureServiceRates(tx *sql.Tx, stats *Stats) error {
	for _, r := range treescore.DefaultRateTable().Rates() {
		res, err := tx.Exec(`
			INSERT INTO service_rates (
				service_type, unit, base_rate, minimum, cleanup_percent, hauling_percent,
				baseline_crew, crew_step_percent
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(service_type) DO NOTHING
		`, string(r.ServiceType), string(r.Unit), r.BaseRate, r.Minimum, r.CleanupPercent,
			r.HaulingPercent, r.BaselineCrew, r.CrewStepPercent)
		if err != nil {
			return fmt.Errorf("insert default rate %s: %w", r.ServiceType, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("default rate %s rows affected: %w", r.ServiceType, err)
		}
		stats.Inserts += int(n)
	}
	return nil
}
