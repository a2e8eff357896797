package treescore

import (
	"errors"
	"fmt"
	"math"

	"github.com/canopyworks/arborcost/internal/model"
)

var (
	ErrUnknownServiceType = errors.New("unknown service type")
	ErrInvalidLineItem    = errors.New("invalid line item")
)

// Quote is the full pricing result for one line item.
type Quote struct {
	ServiceType          model.ServiceType `json:"service_type"`
	TreeScore            float64           `json:"tree_score"`
	Factors              []string          `json:"factors"`
	Multiplier           float64           `json:"multiplier"`
	AFScore              float64           `json:"af_score"`
	DisplayAFScore       int               `json:"display_af_score"`
	Quantity             float64           `json:"quantity"`
	Unit                 Unit              `json:"unit"`
	CrewFactor           float64           `json:"crew_factor"`
	EquipmentClassFactor float64           `json:"equipment_class_factor"`
	UrgencyFactor        float64           `json:"urgency_factor"`
	UnitPrice            float64           `json:"unit_price"`
	Subtotal             float64           `json:"subtotal"`
	Cleanup              float64           `json:"cleanup"`
	Hauling              float64           `json:"hauling"`
	MinimumApplied       bool              `json:"minimum_applied"`
	Total                float64           `json:"total"`
}

// Price computes the quote of item against the rate table.
//
// Score services (removal, trimming) carry the AFISS multiplier in their
// quantity; stump and acreage services carry it in the unit price.
func Price(item model.LineItem, table RateTable) (Quote, error) {
	rate, ok := table.Lookup(item.ServiceType)
	if !ok {
		return Quote{}, fmt.Errorf("%w: %q", ErrUnknownServiceType, item.ServiceType)
	}
	if err := checkMeasurements(item); err != nil {
		return Quote{}, err
	}

	sel, err := SelectForItem(item)
	if err != nil {
		return Quote{}, err
	}

	equipmentFactor, ok := EquipmentClassFactor(item.EquipmentClass)
	if !ok {
		return Quote{}, fmt.Errorf("%w: unknown equipment class %q", ErrInvalidLineItem, item.EquipmentClass)
	}
	urgencyFactor, ok := UrgencyFactor(item.Urgency)
	if !ok {
		return Quote{}, fmt.Errorf("%w: unknown urgency %q", ErrInvalidLineItem, item.Urgency)
	}

	m := item.Measurements
	score := Score(m.Height, m.DBH, m.CanopyRadius)
	afScore := sel.Apply(score)
	multiplier := sel.Multiplier()

	q := Quote{
		ServiceType:          item.ServiceType,
		TreeScore:            score,
		Factors:              sel.IDs(),
		Multiplier:           multiplier,
		AFScore:              afScore,
		DisplayAFScore:       DisplayScore(afScore),
		Unit:                 rate.Unit,
		CrewFactor:           crewFactor(item.CrewSize, rate),
		EquipmentClassFactor: equipmentFactor,
		UrgencyFactor:        urgencyFactor,
	}

	unitPrice := rate.BaseRate * q.CrewFactor * equipmentFactor * urgencyFactor
	switch item.ServiceType {
	case model.ServiceRemoval:
		q.Quantity = afScore
	case model.ServiceTrimming:
		q.Quantity = afScore * m.TrimPercent / 100
	case model.ServiceStumpGrinding:
		q.Quantity = m.StumpDiameter * math.Max(1, m.GrindDepth/StandardGrindDepth)
		unitPrice *= multiplier
	default:
		q.Quantity = m.Acreage
		unitPrice *= multiplier
	}
	if score == 0 && (item.ServiceType == model.ServiceRemoval || item.ServiceType == model.ServiceTrimming) {
		// No measured tree: flat points from factors alone do not make a quantity.
		q.Quantity = 0
		q.AFScore = 0
		q.DisplayAFScore = 0
	}

	q.UnitPrice = unitPrice
	q.Subtotal = q.Quantity * unitPrice
	if item.IncludeCleanup {
		q.Cleanup = q.Subtotal * rate.CleanupPercent / 100
	}
	if item.IncludeHauling {
		q.Hauling = q.Subtotal * rate.HaulingPercent / 100
	}

	q.Total = q.Subtotal + q.Cleanup + q.Hauling
	if q.Total < rate.Minimum {
		q.Total = rate.Minimum
		q.MinimumApplied = true
	}
	return q, nil
}

// PriceLineItem prices item and returns it with its computed fields set.
func PriceLineItem(item model.LineItem, table RateTable) (model.LineItem, error) {
	q, err := Price(item, table)
	if err != nil {
		return model.LineItem{}, err
	}

	item.AFISSFactors = q.Factors
	item.TreeScore = q.TreeScore
	item.AFISSMultiplier = q.Multiplier
	item.AFScore = q.AFScore
	item.Quantity = q.Quantity
	item.UnitPrice = q.UnitPrice
	item.TotalPrice = q.Total
	return item, nil
}

// crewFactor scales the rate by CrewStepPercent for every crew member above or
// below the baseline. A zero crew size means the baseline crew. The factor
// never drops below zero.
func crewFactor(crewSize int, rate ServiceRate) float64 {
	if crewSize <= 0 {
		return 1
	}
	return math.Max(0, 1+float64(crewSize-rate.BaselineCrew)*rate.CrewStepPercent/100)
}

func checkMeasurements(item model.LineItem) error {
	m := item.Measurements
	fields := []struct {
		name  string
		value float64
	}{
		{"height", m.Height},
		{"dbh", m.DBH},
		{"canopy_radius", m.CanopyRadius},
		{"trim_percent", m.TrimPercent},
		{"stump_diameter", m.StumpDiameter},
		{"grind_depth", m.GrindDepth},
		{"acreage", m.Acreage},
	}
	for _, f := range fields {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidLineItem, f.name)
		}
	}
	if item.CrewSize < 0 {
		return fmt.Errorf("%w: crew size must not be negative", ErrInvalidLineItem)
	}

	switch item.ServiceType {
	case model.ServiceTrimming:
		if m.TrimPercent > 100 {
			return fmt.Errorf("%w: trim_percent must be between 0 and 100", ErrInvalidLineItem)
		}
	case model.ServiceStumpGrinding:
		if m.StumpDiameter <= 0 {
			return fmt.Errorf("%w: stump_diameter is required", ErrInvalidLineItem)
		}
	case model.ServiceForestryMulching, model.ServiceLandClearing:
		if m.Acreage <= 0 {
			return fmt.Errorf("%w: acreage is required", ErrInvalidLineItem)
		}
	}
	return nil
}
