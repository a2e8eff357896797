package model

import "github.com/google/uuid"

// EquipmentCategory groups equipment and selects its template.
type EquipmentCategory string

const (
	EquipmentChipper         EquipmentCategory = "chipper"
	EquipmentStumpGrinder    EquipmentCategory = "stump_grinder"
	EquipmentBucketTruck     EquipmentCategory = "bucket_truck"
	EquipmentCrane           EquipmentCategory = "crane"
	EquipmentSkidSteer       EquipmentCategory = "skid_steer"
	EquipmentForestryMulcher EquipmentCategory = "forestry_mulcher"
	EquipmentChipTruck       EquipmentCategory = "chip_truck"
	EquipmentChainsaw        EquipmentCategory = "chainsaw"
	EquipmentOther           EquipmentCategory = "other"
)

// EquipmentCategories lists every category in display order.
var EquipmentCategories = []EquipmentCategory{
	EquipmentChipper,
	EquipmentStumpGrinder,
	EquipmentBucketTruck,
	EquipmentCrane,
	EquipmentSkidSteer,
	EquipmentForestryMulcher,
	EquipmentChipTruck,
	EquipmentChainsaw,
	EquipmentOther,
}

// Valid reports whether c is one of the known categories.
func (c EquipmentCategory) Valid() bool {
	for _, known := range EquipmentCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Equipment is a machine or tool whose hourly ownership and operating cost
// feeds crew loadouts.
type Equipment struct {
	ID                uuid.UUID         `json:"id"`
	Name              string            `json:"name" validate:"required"`
	Category          EquipmentCategory `json:"category" validate:"required,equipment_category"`
	PurchasePrice     float64           `json:"purchase_price" validate:"gte=0"`
	SalvageValue      float64           `json:"salvage_value" validate:"gte=0,ltefield=PurchasePrice"`
	LifeHours         float64           `json:"life_hours" validate:"gt=0"`
	AnnualHours       float64           `json:"annual_hours" validate:"gt=0"`
	FuelBurnRate      float64           `json:"fuel_burn_rate" validate:"gte=0"`
	FuelPrice         float64           `json:"fuel_price" validate:"gte=0"`
	MaintenanceFactor float64           `json:"maintenance_factor" validate:"gte=0"`
	InsuranceRate     float64           `json:"insurance_rate" validate:"gte=0"`
}

// Key returns the equipment ID.
func (e Equipment) Key() uuid.UUID { return e.ID }

// WithID returns a copy carrying id.
func (e Equipment) WithID(id uuid.UUID) Equipment {
	e.ID = id
	return e
}
