package model

import "github.com/google/uuid"

// LoadoutEquipment references equipment by ID with the share of the hour it runs.
type LoadoutEquipment struct {
	EquipmentID        uuid.UUID `json:"equipment_id" validate:"required"`
	UtilizationPercent float64   `json:"utilization_percent" validate:"gte=0,lte=100"`
}

// LoadoutEmployee references a crew member by ID.
type LoadoutEmployee struct {
	EmployeeID uuid.UUID `json:"employee_id" validate:"required"`
	Role       string    `json:"role"`
}

// Loadout is a named crew bundle. It references equipment and employees by
// ID only; references are resolved when the cost is computed.
type Loadout struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name" validate:"required"`
	Description string             `json:"description"`
	Equipment   []LoadoutEquipment `json:"equipment" validate:"dive"`
	Employees   []LoadoutEmployee  `json:"employees" validate:"dive"`
}

// Key returns the loadout ID.
func (l Loadout) Key() uuid.UUID { return l.ID }

// WithID returns a copy of l carrying id.
func (l Loadout) WithID(id uuid.UUID) Loadout {
	l.ID = id
	return l
}
