// Package storage persists directory collections and the service rate table
// in SQLite. Each collection is saved whole inside one transaction.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/canopyworks/arborcost/internal/db"
)

const timeLayout = time.RFC3339Nano

// Store hands out the per-collection persisters backed by one database.
type Store struct {
	db *sql.DB
}

// New returns a Store over conn.
func New(conn *sql.DB) *Store {
	return &Store{db: conn}
}

// Equipment persists the equipment directory.
func (s *Store) Equipment() *EquipmentPersister { return &EquipmentPersister{db: s.db} }

// Employees persists the employee directory.
func (s *Store) Employees() *EmployeePersister { return &EmployeePersister{db: s.db} }

// Loadouts persists loadouts with their members.
func (s *Store) Loadouts() *LoadoutPersister { return &LoadoutPersister{db: s.db} }

// Customers persists the customer directory.
func (s *Store) Customers() *CustomerPersister { return &CustomerPersister{db: s.db} }

// Proposals persists proposals with their line items.
func (s *Store) Proposals() *ProposalPersister { return &ProposalPersister{db: s.db} }

// WorkOrders persists scheduled work orders.
func (s *Store) WorkOrders() *WorkOrderPersister {
	return &WorkOrderPersister{db: s.db}
}

// Rates reads and writes the service rate table.
func (s *Store) Rates() *RateStore { return &RateStore{db: s.db} }

// replaceAll deletes every row of table and runs insert in the same
// transaction. Child tables declared ON DELETE CASCADE are cleared with it.
func replaceAll(ctx context.Context, conn *sql.DB, table string, insert func(tx *sql.Tx) error) error {
	return db.WithTx(ctx, conn, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
		if err := insert(tx); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
		return nil
	})
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", raw, err)
	}
	return t, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
