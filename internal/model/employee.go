package model

import "github.com/google/uuid"

// Position is an employee's job category; it selects the default burden multiplier.
type Position string

const (
	PositionGroundsman        Position = "groundsman"
	PositionClimber           Position = "climber"
	PositionCrewLeader        Position = "crew_leader"
	PositionEquipmentOperator Position = "equipment_operator"
	PositionArborist          Position = "certified_arborist"
	PositionPlantHealthTech   Position = "plant_health_tech"
	PositionMechanic          Position = "mechanic"
	PositionEstimator         Position = "estimator"
)

var Positions = []Position{
	PositionGroundsman,
	PositionClimber,
	PositionCrewLeader,
	PositionEquipmentOperator,
	PositionArborist,
	PositionPlantHealthTech,
	PositionMechanic,
	PositionEstimator,
}

// Valid reports whether p is one of the known positions.
func (p Position) Valid() bool {
	for _, known := range Positions {
		if p == known {
			return true
		}
	}
	return false
}

// Employee is a crew member. BurdenMultiplier overrides the position default
// when set.
type Employee struct {
	ID               uuid.UUID `json:"id"`
	FirstName        string    `json:"first_name" validate:"required"`
	LastName         string    `json:"last_name"`
	Position         Position  `json:"position" validate:"required,position"`
	BaseHourlyRate   float64   `json:"base_hourly_rate" validate:"gte=0"`
	BurdenMultiplier *float64  `json:"burden_multiplier,omitempty" validate:"omitempty,gte=1"`
}

// Key returns the employee ID.
func (e Employee) Key() uuid.UUID { return e.ID }

// WithID returns a copy of e carrying id.
func (e Employee) WithID(id uuid.UUID) Employee {
	e.ID = id
	return e
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}
