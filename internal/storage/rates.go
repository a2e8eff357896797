package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/canopyworks/arborcost/internal/db"
	"github.com/canopyworks/arborcost/internal/treescore"
)

// RateStore reads and writes the service rate table. Service types missing
// from the table fall back to the shipped defaults.
type RateStore struct {
	db *sql.DB
}

// RateTable returns the defaults overlaid with any stored rates.
func (s *RateStore) RateTable(ctx context.Context) (treescore.RateTable, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT service_type, unit, base_rate, minimum, cleanup_percent, hauling_percent,
			baseline_crew, crew_step_percent
		FROM service_rates
	`)
	if err != nil {
		return nil, fmt.Errorf("query service rates: %w", err)
	}
	defer rows.Close()

	table := treescore.DefaultRateTable()
	for rows.Next() {
		var r treescore.ServiceRate
		if err := rows.Scan(&r.ServiceType, &r.Unit, &r.BaseRate, &r.Minimum, &r.CleanupPercent,
			&r.HaulingPercent, &r.BaselineCrew, &r.CrewStepPercent); err != nil {
			return nil, fmt.Errorf("scan service rate: %w", err)
		}
		table[r.ServiceType] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service rates: %w", err)
	}
	return table, nil
}

// SaveRates upserts every rate in table after validating all of them.
func (s *RateStore) SaveRates(ctx context.Context, table treescore.RateTable) error {
	known := treescore.DefaultRateTable()
	for st, r := range table {
		if _, ok := known[st]; !ok {
			return fmt.Errorf("%w: %q", treescore.ErrUnknownServiceType, st)
		}
		r.ServiceType = st
		if err := r.Validate(); err != nil {
			return err
		}
	}

	now := formatTime(time.Now())
	return db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, r := range table.Rates() {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO service_rates (
					service_type, unit, base_rate, minimum, cleanup_percent, hauling_percent,
					baseline_crew, crew_step_percent, updated_at
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(service_type) DO UPDATE SET
					unit = excluded.unit,
					base_rate = excluded.base_rate,
					minimum = excluded.minimum,
					cleanup_percent = excluded.cleanup_percent,
					hauling_percent = excluded.hauling_percent,
					baseline_crew = excluded.baseline_crew,
					crew_step_percent = excluded.crew_step_percent,
					updated_at = excluded.updated_at
			`, string(r.ServiceType), string(r.Unit), r.BaseRate, r.Minimum, r.CleanupPercent,
				r.HaulingPercent, r.BaselineCrew, r.CrewStepPercent, now); err != nil {
				return fmt.Errorf("upsert rate %s: %w", r.ServiceType, err)
			}
		}
		return nil
	})
}
