// Package loadout rolls equipment and crew costs up into an hourly cost for a
// crew loadout.
package loadout

import (
	"github.com/google/uuid"

	"github.com/canopyworks/arborcost/internal/model"
	"github.com/canopyworks/arborcost/internal/pricing"
)

// DefaultMarkup turns a loadout's hourly cost into a suggested billable rate.
const DefaultMarkup = 3.0

// EquipmentLookup resolves equipment references. A miss is not an error.
type EquipmentLookup interface {
	Get(id uuid.UUID) (model.Equipment, bool)
}

// EmployeeLookup resolves employee references. A miss is not an error.
type EmployeeLookup interface {
	Get(id uuid.UUID) (model.Employee, bool)
}

// EquipmentLine is one resolved equipment reference and its utilized cost.
type EquipmentLine struct {
	EquipmentID        uuid.UUID `json:"equipment_id"`
	Name               string    `json:"name"`
	HourlyRate         float64   `json:"hourly_rate"`
	UtilizationPercent float64   `json:"utilization_percent"`
	Cost               float64   `json:"cost"`
}

// EmployeeLine is one resolved crew member and their true hourly cost.
type EmployeeLine struct {
	EmployeeID     uuid.UUID `json:"employee_id"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	TrueHourlyCost float64   `json:"true_hourly_cost"`
}

// Cost is the hourly cost of a loadout. The Missing counters report
// references that did not resolve and were left out of the totals.
type Cost struct {
	LoadoutID        uuid.UUID       `json:"loadout_id"`
	EquipmentLines   []EquipmentLine `json:"equipment_lines"`
	EmployeeLines    []EmployeeLine  `json:"employee_lines"`
	EquipmentCost    float64         `json:"equipment_cost"`
	EmployeeCost     float64         `json:"employee_cost"`
	TotalCost        float64         `json:"total_cost"`
	MissingEquipment int             `json:"missing_equipment"`
	MissingEmployees int             `json:"missing_employees"`
}

// Resolved reports whether every reference in the loadout resolved.
func (c Cost) Resolved() bool {
	return c.MissingEquipment == 0 && c.MissingEmployees == 0
}

// SuggestedBillableRate is TotalCost × markup. It is derived, never stored.
func (c Cost) SuggestedBillableRate(markup float64) float64 {
	return c.TotalCost * markup
}

// Aggregate computes the hourly cost of l against the given directory
// snapshots. Equipment that no longer resolves, or whose rate cannot be
// computed, contributes zero; so does a missing employee.
func Aggregate(l model.Loadout, equipment EquipmentLookup, employees EmployeeLookup) Cost {
	cost := Cost{
		LoadoutID:      l.ID,
		EquipmentLines: make([]EquipmentLine, 0, len(l.Equipment)),
		EmployeeLines:  make([]EmployeeLine, 0, len(l.Employees)),
	}

	for _, ref := range l.Equipment {
		e, ok := equipment.Get(ref.EquipmentID)
		if !ok {
			cost.MissingEquipment++
			continue
		}
		rate, err := pricing.EquipmentRate(e)
		if err != nil {
			cost.MissingEquipment++
			continue
		}

		lineCost := rate.HourlyRate * ref.UtilizationPercent / 100
		cost.EquipmentLines = append(cost.EquipmentLines, EquipmentLine{
			EquipmentID:        e.ID,
			Name:               e.Name,
			HourlyRate:         rate.HourlyRate,
			UtilizationPercent: ref.UtilizationPercent,
			Cost:               lineCost,
		})
		cost.EquipmentCost += lineCost
	}

	for _, ref := range l.Employees {
		e, ok := employees.Get(ref.EmployeeID)
		if !ok {
			cost.MissingEmployees++
			continue
		}

		hourly := pricing.TrueHourlyCost(e)
		cost.EmployeeLines = append(cost.EmployeeLines, EmployeeLine{
			EmployeeID:     e.ID,
			Name:           e.FullName(),
			Role:           ref.Role,
			TrueHourlyCost: hourly,
		})
		cost.EmployeeCost += hourly
	}

	cost.TotalCost = cost.EquipmentCost + cost.EmployeeCost
	return cost
}
