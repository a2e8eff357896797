// Package pricing computes hourly ownership/operating cost for equipment and
// fully burdened hourly cost for employees.
package pricing

import (
	"errors"
	"fmt"

	"github.com/canopyworks/arborcost/internal/model"
)

const (
	// AnnualInterestRate is charged on average invested capital.
	AnnualInterestRate = 0.06
	// WearPartsFactor is the wear-parts allowance as a fraction of depreciation.
	WearPartsFactor = 0.20

	TaxBurdenFactor      = 0.30
	BenefitsBurdenFactor = 0.25
)

// ErrInvalidConfiguration is returned for equipment whose life or annual hours
// would make the hourly rate infinite or undefined.
var ErrInvalidConfiguration = errors.New("invalid equipment configuration")

// EquipmentBreakdown contains every component of an equipment hourly rate.
// HourlyRate is exactly the sum of the six components.
type EquipmentBreakdown struct {
	Depreciation  float64 `json:"depreciation"`
	Interest      float64 `json:"interest"`
	InsuranceCost float64 `json:"insurance_cost"`
	FuelCost      float64 `json:"fuel_cost"`
	Maintenance   float64 `json:"maintenance"`
	WearParts     float64 `json:"wear_parts"`
	HourlyRate    float64 `json:"hourly_rate"`
}

// CheckEquipment rejects records that cannot produce a finite hourly rate.
func CheckEquipment(e model.Equipment) error {
	if !(e.LifeHours > 0) {
		return fmt.Errorf("%w: life hours must be greater than 0, got %v", ErrInvalidConfiguration, e.LifeHours)
	}
	if !(e.AnnualHours > 0) {
		return fmt.Errorf("%w: annual hours must be greater than 0, got %v", ErrInvalidConfiguration, e.AnnualHours)
	}
	return nil
}

// EquipmentRate computes the blended hourly cost of owning and operating e.
// No rounding is applied.
func EquipmentRate(e model.Equipment) (EquipmentBreakdown, error) {
	if err := CheckEquipment(e); err != nil {
		return EquipmentBreakdown{}, err
	}

	depreciation := (e.PurchasePrice - e.SalvageValue) / e.LifeHours
	interest := ((e.PurchasePrice + e.SalvageValue) / 2 * AnnualInterestRate) / e.AnnualHours
	insuranceCost := (e.PurchasePrice * e.InsuranceRate / 100) / e.AnnualHours
	fuelCost := e.FuelBurnRate * e.FuelPrice
	maintenance := depreciation * e.MaintenanceFactor / 100
	wearParts := depreciation * WearPartsFactor

	return EquipmentBreakdown{
		Depreciation:  depreciation,
		Interest:      interest,
		InsuranceCost: insuranceCost,
		FuelCost:      fuelCost,
		Maintenance:   maintenance,
		WearParts:     wearParts,
		HourlyRate:    depreciation + interest + insuranceCost + fuelCost + maintenance + wearParts,
	}, nil
}

// EmployeeBreakdown splits the burdened hourly cost of an employee. The three
// burden parts are informational and always sum to base × (multiplier − 1).
type EmployeeBreakdown struct {
	BaseHourlyRate   float64 `json:"base_hourly_rate"`
	BurdenMultiplier float64 `json:"burden_multiplier"`
	TaxBurden        float64 `json:"tax_burden"`
	BenefitsBurden   float64 `json:"benefits_burden"`
	OverheadBurden   float64 `json:"overhead_burden"`
	TrueHourlyCost   float64 `json:"true_hourly_cost"`
}

// BurdenMultiplier returns the employee override when present and the
// position default otherwise.
func BurdenMultiplier(e model.Employee) float64 {
	if e.BurdenMultiplier != nil {
		return *e.BurdenMultiplier
	}
	return DefaultBurdenMultiplier(e.Position)
}

// TrueHourlyCost is wage × burden multiplier.
func TrueHourlyCost(e model.Employee) float64 {
	return e.BaseHourlyRate * BurdenMultiplier(e)
}

// EmployeeCost returns the true hourly cost of e with its informational burden
// breakdown.
func EmployeeCost(e model.Employee) EmployeeBreakdown {
	base := e.BaseHourlyRate
	multiplier := BurdenMultiplier(e)

	return EmployeeBreakdown{
		BaseHourlyRate:   base,
		BurdenMultiplier: multiplier,
		TaxBurden:        base * TaxBurdenFactor,
		BenefitsBurden:   base * BenefitsBurdenFactor,
		OverheadBurden:   base * (multiplier - 1 - TaxBurdenFactor - BenefitsBurdenFactor),
		TrueHourlyCost:   base * multiplier,
	}
}
