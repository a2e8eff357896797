package pricing

import (
	"github.com/google/uuid"

	"github.com/canopyworks/arborcost/internal/model"
)

// fallbackBurdenMultiplier applies to positions missing from the table.
const fallbackBurdenMultiplier = 1.7

var positionBurden = map[model.Position]float64{
	model.PositionGroundsman:        1.6,
	model.PositionClimber:           1.9,
	model.PositionCrewLeader:        1.8,
	model.PositionEquipmentOperator: 1.75,
	model.PositionArborist:          1.85,
	model.PositionPlantHealthTech:   1.7,
	model.PositionMechanic:          1.65,
	model.PositionEstimator:         2.0,
}

// DefaultBurdenMultiplier returns the burden multiplier for a position.
func DefaultBurdenMultiplier(p model.Position) float64 {
	if m, ok := positionBurden[p]; ok {
		return m
	}
	return fallbackBurdenMultiplier
}

// EquipmentTemplate holds the default cost inputs of an equipment category.
type EquipmentTemplate struct {
	Category          model.EquipmentCategory `json:"category"`
	Name              string                  `json:"name"`
	PurchasePrice     float64                 `json:"purchase_price"`
	SalvageValue      float64                 `json:"salvage_value"`
	LifeHours         float64                 `json:"life_hours"`
	AnnualHours       float64                 `json:"annual_hours"`
	FuelBurnRate      float64                 `json:"fuel_burn_rate"`
	FuelPrice         float64                 `json:"fuel_price"`
	MaintenanceFactor float64                 `json:"maintenance_factor"`
	InsuranceRate     float64                 `json:"insurance_rate"`
}

var equipmentTemplates = map[model.EquipmentCategory]EquipmentTemplate{
	model.EquipmentChipper: {
		Name: "Brush chipper", PurchasePrice: 50000, SalvageValue: 12500, LifeHours: 5000, AnnualHours: 1800,
		FuelBurnRate: 2.5, FuelPrice: 4.25, MaintenanceFactor: 90, InsuranceRate: 3,
	},
	model.EquipmentStumpGrinder: {
		Name: "Stump grinder", PurchasePrice: 45000, SalvageValue: 9000, LifeHours: 4000, AnnualHours: 800,
		FuelBurnRate: 2, FuelPrice: 4.25, MaintenanceFactor: 100, InsuranceRate: 3,
	},
	model.EquipmentBucketTruck: {
		Name: "Bucket truck", PurchasePrice: 180000, SalvageValue: 36000, LifeHours: 12000, AnnualHours: 1500,
		FuelBurnRate: 4, FuelPrice: 4.25, MaintenanceFactor: 80, InsuranceRate: 4,
	},
	model.EquipmentCrane: {
		Name: "Knuckle boom crane", PurchasePrice: 350000, SalvageValue: 87500, LifeHours: 15000, AnnualHours: 1200,
		FuelBurnRate: 6, FuelPrice: 4.25, MaintenanceFactor: 75, InsuranceRate: 5,
	},
	model.EquipmentSkidSteer: {
		Name: "Compact track loader", PurchasePrice: 75000, SalvageValue: 22500, LifeHours: 6000, AnnualHours: 1000,
		FuelBurnRate: 3, FuelPrice: 4.25, MaintenanceFactor: 85, InsuranceRate: 3,
	},
	model.EquipmentForestryMulcher: {
		Name: "Forestry mulcher", PurchasePrice: 250000, SalvageValue: 50000, LifeHours: 8000, AnnualHours: 1200,
		FuelBurnRate: 7, FuelPrice: 4.25, MaintenanceFactor: 120, InsuranceRate: 4,
	},
	model.EquipmentChipTruck: {
		Name: "Chip truck", PurchasePrice: 95000, SalvageValue: 19000, LifeHours: 10000, AnnualHours: 1600,
		FuelBurnRate: 3.5, FuelPrice: 4.25, MaintenanceFactor: 70, InsuranceRate: 4,
	},
	model.EquipmentChainsaw: {
		Name: "Pro chainsaw", PurchasePrice: 1200, SalvageValue: 100, LifeHours: 1500, AnnualHours: 600,
		FuelBurnRate: 0.25, FuelPrice: 5, MaintenanceFactor: 150, InsuranceRate: 0,
	},
	model.EquipmentOther: {
		Name: "Equipment", PurchasePrice: 10000, SalvageValue: 1000, LifeHours: 5000, AnnualHours: 1000,
		MaintenanceFactor: 80, InsuranceRate: 2,
	},
}

// Templates returns the category defaults in category display order.
func Templates() []EquipmentTemplate {
	out := make([]EquipmentTemplate, 0, len(model.EquipmentCategories))
	for _, c := range model.EquipmentCategories {
		if t, ok := Template(c); ok {
			out = append(out, t)
		}
	}
	return out
}

// Template returns the default template of category c.
func Template(c model.EquipmentCategory) (EquipmentTemplate, bool) {
	t, ok := equipmentTemplates[c]
	if !ok {
		return EquipmentTemplate{}, false
	}
	t.Category = c
	return t, true
}

// NewEquipmentFromTemplate builds a new equipment record from the category
// defaults. An empty name keeps the template name.
func NewEquipmentFromTemplate(c model.EquipmentCategory, name string) (model.Equipment, bool) {
	t, ok := Template(c)
	if !ok {
		return model.Equipment{}, false
	}
	if name == "" {
		name = t.Name
	}
	return model.Equipment{
		ID:                uuid.New(),
		Name:              name,
		Category:          c,
		PurchasePrice:     t.PurchasePrice,
		SalvageValue:      t.SalvageValue,
		LifeHours:         t.LifeHours,
		AnnualHours:       t.AnnualHours,
		FuelBurnRate:      t.FuelBurnRate,
		FuelPrice:         t.FuelPrice,
		MaintenanceFactor: t.MaintenanceFactor,
		InsuranceRate:     t.InsuranceRate,
	}, true
}
