package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/canopyworks/arborcost/internal/model"
)

func nearlyEqual(t *testing.T, name string, got, want, tolerance float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func chipper() model.Equipment {
	return model.Equipment{
		Name:              "Chipper",
		Category:          model.EquipmentChipper,
		PurchasePrice:     50000,
		SalvageValue:      12500,
		LifeHours:         5000,
		AnnualHours:       1800,
		FuelBurnRate:      2.5,
		FuelPrice:         4.25,
		MaintenanceFactor: 90,
		InsuranceRate:     3,
	}
}

func TestEquipmentRate_ChipperScenario(t *testing.T) {
	result, err := EquipmentRate(chipper())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	nearlyEqual(t, "depreciation", result.Depreciation, 7.5, 1e-9)
	nearlyEqual(t, "interest", result.Interest, 1.0417, 1e-4)
	nearlyEqual(t, "insuranceCost", result.InsuranceCost, 0.8333, 1e-4)
	nearlyEqual(t, "fuelCost", result.FuelCost, 10.625, 1e-9)
	nearlyEqual(t, "maintenance", result.Maintenance, 6.75, 1e-9)
	nearlyEqual(t, "wearParts", result.WearParts, 1.5, 1e-9)
	nearlyEqual(t, "hourlyRate", result.HourlyRate, 28.25, 1e-9)
}

func TestEquipmentRate_ComponentsReconcileExactly(t *testing.T) {
	inputs := []model.Equipment{
		chipper(),
		{PurchasePrice: 180000, SalvageValue: 36000, LifeHours: 12000, AnnualHours: 1500, FuelBurnRate: 4, FuelPrice: 4.25, MaintenanceFactor: 80, InsuranceRate: 4},
		{PurchasePrice: 1199.99, SalvageValue: 99.5, LifeHours: 1333, AnnualHours: 613, FuelBurnRate: 0.3, FuelPrice: 5.17, MaintenanceFactor: 150, InsuranceRate: 0.7},
	}

	for i, e := range inputs {
		r, err := EquipmentRate(e)
		if err != nil {
			t.Fatalf("input %d: unexpected err: %v", i, err)
		}
		sum := r.Depreciation + r.Interest + r.InsuranceCost + r.FuelCost + r.Maintenance + r.WearParts
		if sum != r.HourlyRate {
			t.Fatalf("input %d: components sum to %v, hourly rate is %v", i, sum, r.HourlyRate)
		}
	}
}

func TestEquipmentRate_IncreasesWithPurchasePrice(t *testing.T) {
	e := chipper()
	previous := -1.0
	for _, price := range []float64{12500, 20000, 50000, 90000, 250000} {
		e.PurchasePrice = price
		r, err := EquipmentRate(e)
		if err != nil {
			t.Fatalf("price %v: unexpected err: %v", price, err)
		}
		if r.HourlyRate < 0 {
			t.Fatalf("price %v: negative hourly rate %v", price, r.HourlyRate)
		}
		if r.HourlyRate <= previous {
			t.Fatalf("price %v: hourly rate %v did not increase from %v", price, r.HourlyRate, previous)
		}
		previous = r.HourlyRate
	}
}

func TestEquipmentRate_RejectsZeroOrNegativeHours(t *testing.T) {
	cases := []struct {
		name         string
		life, annual float64
	}{
		{"zero life", 0, 1800},
		{"negative life", -10, 1800},
		{"zero annual", 5000, 0},
		{"negative annual", 5000, -1},
		{"nan life", math.NaN(), 1800},
	}

	for _, tc := range cases {
		e := chipper()
		e.LifeHours = tc.life
		e.AnnualHours = tc.annual

		r, err := EquipmentRate(e)
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Fatalf("%s: expected ErrInvalidConfiguration, got %v", tc.name, err)
		}
		if r.HourlyRate != 0 {
			t.Fatalf("%s: expected zero breakdown, got %+v", tc.name, r)
		}
	}
}

func TestEmployeeCost_UsesPositionDefault(t *testing.T) {
	e := model.Employee{FirstName: "Sam", Position: model.PositionClimber, BaseHourlyRate: 30}

	r := EmployeeCost(e)
	nearlyEqual(t, "multiplier", r.BurdenMultiplier, 1.9, 1e-12)
	nearlyEqual(t, "trueHourlyCost", r.TrueHourlyCost, 57, 1e-9)
	nearlyEqual(t, "TrueHourlyCost", TrueHourlyCost(e), 57, 1e-9)
}

func TestEmployeeCost_OverrideWins(t *testing.T) {
	override := 2.2
	e := model.Employee{FirstName: "Sam", Position: model.PositionGroundsman, BaseHourlyRate: 20, BurdenMultiplier: &override}

	r := EmployeeCost(e)
	nearlyEqual(t, "multiplier", r.BurdenMultiplier, 2.2, 1e-12)
	nearlyEqual(t, "trueHourlyCost", r.TrueHourlyCost, 44, 1e-9)
}

func TestEmployeeCost_BurdenReconciles(t *testing.T) {
	for _, p := range model.Positions {
		for _, wage := range []float64{0, 15.5, 22, 37.25, 61} {
			e := model.Employee{FirstName: "X", Position: p, BaseHourlyRate: wage}
			r := EmployeeCost(e)

			got := r.TaxBurden + r.BenefitsBurden + r.OverheadBurden
			want := wage * (r.BurdenMultiplier - 1)
			nearlyEqual(t, string(p)+" burden", got, want, 1e-9)
		}
	}
}

func TestDefaultBurdenMultiplier_TableBounds(t *testing.T) {
	if len(positionBurden) != 8 {
		t.Fatalf("expected 8 positions, got %d", len(positionBurden))
	}
	for _, p := range model.Positions {
		m := DefaultBurdenMultiplier(p)
		if m < 1.6 || m > 2.0 {
			t.Fatalf("%s multiplier %v outside [1.6, 2.0]", p, m)
		}
	}
}

func TestTemplates_ProduceValidEquipment(t *testing.T) {
	templates := Templates()
	if len(templates) != len(model.EquipmentCategories) {
		t.Fatalf("expected a template per category, got %d", len(templates))
	}

	for _, tpl := range templates {
		e, ok := NewEquipmentFromTemplate(tpl.Category, "")
		if !ok {
			t.Fatalf("%s: template missing", tpl.Category)
		}
		if e.Name != tpl.Name {
			t.Fatalf("%s: expected template name %q, got %q", tpl.Category, tpl.Name, e.Name)
		}
		if err := model.Validate(e); err != nil {
			t.Fatalf("%s: template fails validation: %v", tpl.Category, err)
		}
		if _, err := EquipmentRate(e); err != nil {
			t.Fatalf("%s: template rate: %v", tpl.Category, err)
		}
	}

	if _, ok := NewEquipmentFromTemplate("boat", ""); ok {
		t.Fatalf("expected unknown category to have no template")
	}
}
