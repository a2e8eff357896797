package treescore

import (
	"fmt"

	"github.com/canopyworks/arborcost/internal/model"
)

// Unit is what a service rate is charged per.
type Unit string

const (
	UnitPoint Unit = "point"
	UnitInch  Unit = "inch"
	UnitAcre  Unit = "acre"
)

// StandardGrindDepth is the stump grind depth (inches) included in the base rate.
const StandardGrindDepth = 6.0

// ServiceRate is the business configuration for one service type.
type ServiceRate struct {
	ServiceType     model.ServiceType `json:"service_type"`
	Unit            Unit              `json:"unit"`
	BaseRate        float64           `json:"base_rate"`
	Minimum         float64           `json:"minimum"`
	CleanupPercent  float64           `json:"cleanup_percent"`
	HaulingPercent  float64           `json:"hauling_percent"`
	BaselineCrew    int               `json:"baseline_crew"`
	CrewStepPercent float64           `json:"crew_step_percent"`
}

// RateTable is keyed by service type.
type RateTable map[model.ServiceType]ServiceRate

// DefaultRateTable returns a fresh copy of the shipped rates.
func DefaultRateTable() RateTable {
	return RateTable{
		model.ServiceRemoval: {
			Unit: UnitPoint, BaseRate: 8.5, Minimum: 350,
			CleanupPercent: 15, HaulingPercent: 20, BaselineCrew: 3, CrewStepPercent: 10,
		},
		model.ServiceTrimming: {
			Unit: UnitPoint, BaseRate: 6, Minimum: 250,
			CleanupPercent: 10, HaulingPercent: 15, BaselineCrew: 2, CrewStepPercent: 10,
		},
		model.ServiceStumpGrinding: {
			Unit: UnitInch, BaseRate: 4, Minimum: 125,
			CleanupPercent: 10, HaulingPercent: 10, BaselineCrew: 1, CrewStepPercent: 10,
		},
		model.ServiceForestryMulching: {
			Unit: UnitAcre, BaseRate: 1800, Minimum: 900,
			BaselineCrew: 2, CrewStepPercent: 10,
		},
		model.ServiceLandClearing: {
			Unit: UnitAcre, BaseRate: 3500, Minimum: 2500,
			CleanupPercent: 10, HaulingPercent: 25, BaselineCrew: 3, CrewStepPercent: 10,
		},
	}.withKeys()
}

func (t RateTable) withKeys() RateTable {
	for st, r := range t {
		r.ServiceType = st
		t[st] = r
	}
	return t
}

// Lookup returns the rate of st with its ServiceType set.
func (t RateTable) Lookup(st model.ServiceType) (ServiceRate, bool) {
	r, ok := t[st]
	if ok {
		r.ServiceType = st
	}
	return r, ok
}

// Rates lists the table in service type order.
func (t RateTable) Rates() []ServiceRate {
	out := make([]ServiceRate, 0, len(t))
	for _, st := range model.ServiceTypes {
		if r, ok := t.Lookup(st); ok {
			out = append(out, r)
		}
	}
	return out
}

// Validate rejects unknown units, negative amounts and crew steps that price a
// one-person crew at or below zero.
func (r ServiceRate) Validate() error {
	switch r.Unit {
	case UnitPoint, UnitInch, UnitAcre:
	default:
		return fmt.Errorf("%w: %s: unknown unit %q", ErrInvalidLineItem, r.ServiceType, r.Unit)
	}
	if r.BaseRate < 0 || r.Minimum < 0 || r.CleanupPercent < 0 || r.HaulingPercent < 0 || r.CrewStepPercent < 0 {
		return fmt.Errorf("%w: %s: rates must be non-negative", ErrInvalidLineItem, r.ServiceType)
	}
	if r.BaselineCrew < 1 {
		return fmt.Errorf("%w: %s: baseline crew must be at least 1", ErrInvalidLineItem, r.ServiceType)
	}
	// A one-person crew must still price above zero.
	if float64(r.BaselineCrew-1)*r.CrewStepPercent >= 100 {
		return fmt.Errorf("%w: %s: crew step %.2f%% prices a one-person crew at or below zero",
			ErrInvalidLineItem, r.ServiceType, r.CrewStepPercent)
	}
	return nil
}

var equipmentClassFactors = map[model.EquipmentClass]float64{
	model.EquipmentClassHand:    1.0,
	model.EquipmentClassBucket:  1.15,
	model.EquipmentClassCrane:   1.5,
	model.EquipmentClassGrinder: 1.1,
	model.EquipmentClassMulcher: 1.2,
}

var urgencyFactors = map[model.Urgency]float64{
	model.UrgencyNormal:    1.0,
	model.UrgencyPriority:  1.25,
	model.UrgencyEmergency: 1.5,
}

// EquipmentClassFactor returns the multiplier of an equipment class. An empty
// class is hand work.
func EquipmentClassFactor(c model.EquipmentClass) (float64, bool) {
	if c == "" {
		c = model.EquipmentClassHand
	}
	f, ok := equipmentClassFactors[c]
	return f, ok
}

// UrgencyFactor returns the multiplier of an urgency tier. An empty tier is
// normal.
func UrgencyFactor(u model.Urgency) (float64, bool) {
	if u == "" {
		u = model.UrgencyNormal
	}
	f, ok := urgencyFactors[u]
	return f, ok
}
