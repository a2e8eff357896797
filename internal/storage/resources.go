package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/canopyworks/arborcost/internal/model"
)

// EquipmentPersister stores the equipment collection.
type EquipmentPersister struct {
	db *sql.DB
}

// LoadAll reads every equipment record.
func (p *EquipmentPersister) LoadAll(ctx context.Context) ([]model.Equipment, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, name, category, purchase_price, salvage_value, life_hours, annual_hours,
			fuel_burn_rate, fuel_price, maintenance_factor, insurance_rate
		FROM equipment
		ORDER BY sort_order
	`)
	if err != nil {
		return nil, fmt.Errorf("query equipment: %w", err)
	}
	defer rows.Close()

	var out []model.Equipment
	for rows.Next() {
		var e model.Equipment
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Category, &e.PurchasePrice, &e.SalvageValue, &e.LifeHours,
			&e.AnnualHours, &e.FuelBurnRate, &e.FuelPrice, &e.MaintenanceFactor, &e.InsuranceRate,
		); err != nil {
			return nil, fmt.Errorf("scan equipment: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate equipment: %w", err)
	}
	return out, nil
}

// SaveAll replaces the equipment collection.
func (p *EquipmentPersister) SaveAll(ctx context.Context, records []model.Equipment) error {
	return replaceAll(ctx, p.db, "equipment", func(tx *sql.Tx) error {
		for i, e := range records {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO equipment (
					id, sort_order, name, category, purchase_price, salvage_value, life_hours,
					annual_hours, fuel_burn_rate, fuel_price, maintenance_factor, insurance_rate
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, e.ID, i, e.Name, string(e.Category), e.PurchasePrice, e.SalvageValue, e.LifeHours,
				e.AnnualHours, e.FuelBurnRate, e.FuelPrice, e.MaintenanceFactor, e.InsuranceRate,
			); err != nil {
				return fmt.Errorf("equipment %s: %w", e.ID, err)
			}
		}
		return nil
	})
}

// EmployeePersister stores the employee collection.
type EmployeePersister struct {
	db *sql.DB
}

// LoadAll reads every employee. A NULL multiplier means the position default.
func (p *EmployeePersister) LoadAll(ctx context.Context) ([]model.Employee, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, position, base_hourly_rate, burden_multiplier
		FROM employees
		ORDER BY sort_order
	`)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	defer rows.Close()

	var out []model.Employee
	for rows.Next() {
		var (
			e      model.Employee
			burden sql.NullFloat64
		)
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Position, &e.BaseHourlyRate, &burden); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		if burden.Valid {
			m := burden.Float64
			e.BurdenMultiplier = &m
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return out, nil
}

// SaveAll replaces the employee collection.
func (p *EmployeePersister) SaveAll(ctx context.Context, records []model.Employee) error {
	return replaceAll(ctx, p.db, "employees", func(tx *sql.Tx) error {
		for i, e := range records {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO employees (id, sort_order, first_name, last_name, position, base_hourly_rate, burden_multiplier)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, e.ID, i, e.FirstName, e.LastName, string(e.Position), e.BaseHourlyRate, nullFloat(e.BurdenMultiplier)); err != nil {
				return fmt.Errorf("employee %s: %w", e.ID, err)
			}
		}
		return nil
	})
}

// LoadoutPersister stores loadouts and their member references.
type LoadoutPersister struct {
	db *sql.DB
}

// LoadAll reads every loadout with members in their saved order.
func (p *LoadoutPersister) LoadAll(ctx context.Context) ([]model.Loadout, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, name, description FROM loadouts ORDER BY sort_order`)
	if err != nil {
		return nil, fmt.Errorf("query loadouts: %w", err)
	}
	var out []model.Loadout
	index := map[string]int{}
	for rows.Next() {
		var l model.Loadout
		if err := rows.Scan(&l.ID, &l.Name, &l.Description); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan loadout: %w", err)
		}
		index[l.ID.String()] = len(out)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate loadouts: %w", err)
	}
	rows.Close()

	eqRows, err := p.db.QueryContext(ctx, `
		SELECT loadout_id, equipment_id, utilization_percent
		FROM loadout_equipment
		ORDER BY loadout_id, sort_order
	`)
	if err != nil {
		return nil, fmt.Errorf("query loadout equipment: %w", err)
	}
	defer eqRows.Close()
	for eqRows.Next() {
		var (
			loadoutID string
			member    model.LoadoutEquipment
		)
		if err := eqRows.Scan(&loadoutID, &member.EquipmentID, &member.UtilizationPercent); err != nil {
			return nil, fmt.Errorf("scan loadout equipment: %w", err)
		}
		if i, ok := index[loadoutID]; ok {
			out[i].Equipment = append(out[i].Equipment, member)
		}
	}
	if err := eqRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loadout equipment: %w", err)
	}

	empRows, err := p.db.QueryContext(ctx, `
		SELECT loadout_id, employee_id, role
		FROM loadout_employees
		ORDER BY loadout_id, sort_order
	`)
	if err != nil {
		return nil, fmt.Errorf("query loadout employees: %w", err)
	}
	defer empRows.Close()
	for empRows.Next() {
		var (
			loadoutID string
			member    model.LoadoutEmployee
		)
		if err := empRows.Scan(&loadoutID, &member.EmployeeID, &member.Role); err != nil {
			return nil, fmt.Errorf("scan loadout employee: %w", err)
		}
		if i, ok := index[loadoutID]; ok {
			out[i].Employees = append(out[i].Employees, member)
		}
	}
	if err := empRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loadout employees: %w", err)
	}
	return out, nil
}

// SaveAll replaces all loadouts. Member references are not checked.
func (p *LoadoutPersister) SaveAll(ctx context.Context, records []model.Loadout) error {
	return replaceAll(ctx, p.db, "loadouts", func(tx *sql.Tx) error {
		for i, l := range records {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO loadouts (id, sort_order, name, description) VALUES (?, ?, ?, ?)
			`, l.ID, i, l.Name, l.Description); err != nil {
				return fmt.Errorf("loadout %s: %w", l.ID, err)
			}
			for j, m := range l.Equipment {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO loadout_equipment (loadout_id, sort_order, equipment_id, utilization_percent)
					VALUES (?, ?, ?, ?)
				`, l.ID, j, m.EquipmentID, m.UtilizationPercent); err != nil {
					return fmt.Errorf("loadout %s equipment: %w", l.ID, err)
				}
			}
			for j, m := range l.Employees {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO loadout_employees (loadout_id, sort_order, employee_id, role)
					VALUES (?, ?, ?, ?)
				`, l.ID, j, m.EmployeeID, m.Role); err != nil {
					return fmt.Errorf("loadout %s employees: %w", l.ID, err)
				}
			}
		}
		return nil
	})
}

// CustomerPersister stores the customer collection.
type CustomerPersister struct {
	db *sql.DB
}

// LoadAll reads every customer.
func (p *CustomerPersister) LoadAll(ctx context.Context) ([]model.Customer, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, name, email, phone, address, latitude, longitude, created_at
		FROM customers
		ORDER BY sort_order
	`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var out []model.Customer
	for rows.Next() {
		var (
			c         model.Customer
			lat, lon  sql.NullFloat64
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &lat, &lon, &createdAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		if lat.Valid && lon.Valid {
			c.Location = &orb.Point{lon.Float64, lat.Float64}
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("customer %s: %w", c.ID, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return out, nil
}

// SaveAll replaces the customer collection.
func (p *CustomerPersister) SaveAll(ctx context.Context, records []model.Customer) error {
	return replaceAll(ctx, p.db, "customers", func(tx *sql.Tx) error {
		for i, c := range records {
			var lat, lon sql.NullFloat64
			if c.Location != nil {
				lat = sql.NullFloat64{Float64: c.Location.Lat(), Valid: true}
				lon = sql.NullFloat64{Float64: c.Location.Lon(), Valid: true}
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO customers (id, sort_order, name, email, phone, address, latitude, longitude, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, c.ID, i, c.Name, c.Email, c.Phone, c.Address, lat, lon, formatTime(c.CreatedAt)); err != nil {
				return fmt.Errorf("customer %s: %w", c.ID, err)
			}
		}
		return nil
	})
}

// WorkOrderPersister stores work orders.
type WorkOrderPersister struct {
	db *sql.DB
}

// LoadAll reads every work order.
func (p *WorkOrderPersister) LoadAll(ctx context.Context) ([]model.WorkOrder, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, proposal_id, loadout_id, title, start_at, end_at, location, notes, calendar_event_id
		FROM work_orders
		ORDER BY sort_order
	`)
	if err != nil {
		return nil, fmt.Errorf("query work orders: %w", err)
	}
	defer rows.Close()

	var out []model.WorkOrder
	for rows.Next() {
		var (
			w          model.WorkOrder
			start, end string
		)
		if err := rows.Scan(&w.ID, &w.ProposalID, &w.LoadoutID, &w.Title, &start, &end, &w.Location, &w.Notes, &w.CalendarEventID); err != nil {
			return nil, fmt.Errorf("scan work order: %w", err)
		}
		if w.Start, err = parseTime(start); err != nil {
			return nil, fmt.Errorf("work order %s: %w", w.ID, err)
		}
		if w.End, err = parseTime(end); err != nil {
			return nil, fmt.Errorf("work order %s: %w", w.ID, err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate work orders: %w", err)
	}
	return out, nil
}

// SaveAll replaces the work order collection.
func (p *WorkOrderPersister) SaveAll(ctx context.Context, records []model.WorkOrder) error {
	return replaceAll(ctx, p.db, "work_orders", func(tx *sql.Tx) error {
		for i, w := range records {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO work_orders (
					id, sort_order, proposal_id, loadout_id, title, start_at, end_at, location, notes, calendar_event_id
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, w.ID, i, w.ProposalID, w.LoadoutID, w.Title, formatTime(w.Start), formatTime(w.End),
				w.Location, w.Notes, w.CalendarEventID); err != nil {
				return fmt.Errorf("work order %s: %w", w.ID, err)
			}
		}
		return nil
	})
}
