package treescore

import (
	"errors"
	"math"
	"testing"

	"github.com/canopyworks/arborcost/internal/model"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestScore(t *testing.T) {
	if got := Score(0, 5, 3); got != 0 {
		t.Fatalf("Score(0, 5, 3) = %v, want 0", got)
	}
	if got := Score(40, 0, 3); got != 0 {
		t.Fatalf("Score(40, 0, 3) = %v, want 0", got)
	}
	if got := Score(40, 12, 5); got != 74 {
		t.Fatalf("Score(40, 12, 5) = %v, want 74", got)
	}
	if got := Score(40, 12, 0); got != 64 {
		t.Fatalf("Score(40, 12, 0) = %v, want 64", got)
	}
}

func TestSelectMultiplierAndScore(t *testing.T) {
	sel, err := Select("limited_access", "multi_stem")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	nearlyEqual(t, "multiplier", sel.Multiplier(), 1.15)
	if got := DisplayScore(sel.Apply(100)); got != 115 {
		t.Fatalf("total AF score = %d, want 115", got)
	}
}

func TestSelectAddsPointsBeforeMultiplier(t *testing.T) {
	sel, err := Select(FactorPowerLines)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	nearlyEqual(t, "apply", sel.Apply(74), (74+10)*1.25)
}

func TestSelectDeduplicatesAndRejectsUnknown(t *testing.T) {
	sel, err := Select(FactorSlope, FactorSlope)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	nearlyEqual(t, "multiplier", sel.Multiplier(), 1.10)

	if _, err := Select("alien_invasion"); !errors.Is(err, ErrUnknownFactor) {
		t.Fatalf("expected ErrUnknownFactor, got %v", err)
	}

	empty, err := Select()
	if err != nil || empty.Multiplier() != 1 {
		t.Fatalf("expected neutral empty selection, got %+v, %v", empty, err)
	}
}

func TestCatalogGroupedByCategory(t *testing.T) {
	factors := Catalog()
	if len(factors) != len(catalog) {
		t.Fatalf("expected %d factors, got %d", len(catalog), len(factors))
	}

	order := make(map[Category]int, len(Categories))
	for i, c := range Categories {
		order[c] = i
	}
	for i := 1; i < len(factors); i++ {
		if order[factors[i].Category] < order[factors[i-1].Category] {
			t.Fatalf("catalog not grouped by category at %d: %+v", i, factors[i])
		}
	}
	for _, id := range []string{FactorNearStructure, FactorPowerLines, FactorSlope} {
		if _, ok := LookupFactor(id); !ok {
			t.Fatalf("flag factor %q missing from catalog", id)
		}
	}
}

func removal() model.LineItem {
	return model.LineItem{
		ServiceType:  model.ServiceRemoval,
		Measurements: model.Measurements{Height: 40, DBH: 12, CanopyRadius: 5},
		CrewSize:     3,
	}
}

func TestPriceRemovalBase(t *testing.T) {
	item := removal()
	item.IncludeCleanup = true
	item.IncludeHauling = true

	q, err := Price(item, DefaultRateTable())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	nearlyEqual(t, "treeScore", q.TreeScore, 74)
	nearlyEqual(t, "quantity", q.Quantity, 74)
	nearlyEqual(t, "unitPrice", q.UnitPrice, 8.5)
	nearlyEqual(t, "subtotal", q.Subtotal, 629)
	nearlyEqual(t, "cleanup", q.Cleanup, 94.35)
	nearlyEqual(t, "hauling", q.Hauling, 125.8)
	nearlyEqual(t, "total", q.Total, 849.15)
	if q.MinimumApplied {
		t.Fatalf("minimum must not apply")
	}
}

func TestPriceRemovalWithFlagsUsesAFScore(t *testing.T) {
	item := removal()
	item.Flags.PowerLines = true

	q, err := Price(item, DefaultRateTable())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	nearlyEqual(t, "multiplier", q.Multiplier, 1.25)
	nearlyEqual(t, "afScore", q.AFScore, 105)
	if q.DisplayAFScore != 105 {
		t.Fatalf("display score = %d, want 105", q.DisplayAFScore)
	}
	nearlyEqual(t, "total", q.Total, 892.5)
	if len(q.Factors) != 1 || q.Factors[0] != FactorPowerLines {
		t.Fatalf("unexpected factors: %v", q.Factors)
	}
}

func TestPriceCrewEquipmentAndUrgency(t *testing.T) {
	item := removal()
	item.CrewSize = 4
	item.EquipmentClass = model.EquipmentClassCrane
	item.Urgency = model.UrgencyEmergency

	q, err := Price(item, DefaultRateTable())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	nearlyEqual(t, "crewFactor", q.CrewFactor, 1.1)
	nearlyEqual(t, "unitPrice", q.UnitPrice, 8.5*1.1*1.5*1.5)
	nearlyEqual(t, "total", q.Total, 74*8.5*1.1*1.5*1.5)

	for _, u := range []model.Urgency{model.UrgencyNormal, model.UrgencyPriority, model.UrgencyEmergency} {
		f, ok := UrgencyFactor(u)
		if !ok || f < 1 {
			t.Fatalf("urgency %s factor %v must be >= 1", u, f)
		}
	}
}

func TestPriceStumpAppliesMultiplierToUnitPrice(t *testing.T) {
	item := model.LineItem{
		ServiceType:  model.ServiceStumpGrinding,
		Measurements: model.Measurements{StumpDiameter: 24, GrindDepth: 12},
		Flags:        model.SiteFlags{Slope: true},
	}

	q, err := Price(item, DefaultRateTable())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	nearlyEqual(t, "quantity", q.Quantity, 48)
	nearlyEqual(t, "unitPrice", q.UnitPrice, 4.4)
	nearlyEqual(t, "total", q.Total, 211.2)
	if q.TreeScore != 0 {
		t.Fatalf("stump item has no tree score, got %v", q.TreeScore)
	}
}

func TestPriceMinimumCharge(t *testing.T) {
	stump := model.LineItem{
		ServiceType:  model.ServiceStumpGrinding,
		Measurements: model.Measurements{StumpDiameter: 10, GrindDepth: 4},
	}
	q, err := Price(stump, DefaultRateTable())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !q.MinimumApplied || q.Total != 125 {
		t.Fatalf("expected minimum charge 125, got %+v", q)
	}

	trim := model.LineItem{ServiceType: model.ServiceTrimming, Flags: model.SiteFlags{PowerLines: true}}
	q, err = Price(trim, DefaultRateTable())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if q.TreeScore != 0 || q.DisplayAFScore != 0 || q.Total != 250 {
		t.Fatalf("unmeasured trim should have no score and the minimum price, got %+v", q)
	}
}

func TestPriceTrimmingUsesTrimPercent(t *testing.T) {
	item := model.LineItem{
		ServiceType:  model.ServiceTrimming,
		Measurements: model.Measurements{Height: 60, DBH: 20, CanopyRadius: 15, TrimPercent: 50},
	}
	q, err := Price(item, DefaultRateTable())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	nearlyEqual(t, "quantity", q.Quantity, 65)
	nearlyEqual(t, "total", q.Total, 390)
}

func TestPriceAcreage(t *testing.T) {
	item := model.LineItem{
		ServiceType:  model.ServiceForestryMulching,
		Measurements: model.Measurements{Acreage: 2.5},
	}
	q, err := Price(item, DefaultRateTable())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	nearlyEqual(t, "total", q.Total, 4500)
}

func TestPriceErrors(t *testing.T) {
	table := DefaultRateTable()

	cases := []struct {
		name string
		item model.LineItem
		want error
	}{
		{"unknown service", model.LineItem{ServiceType: "cabling"}, ErrUnknownServiceType},
		{"negative height", model.LineItem{ServiceType: model.ServiceRemoval, Measurements: model.Measurements{Height: -1}}, ErrInvalidLineItem},
		{"trim over 100", model.LineItem{ServiceType: model.ServiceTrimming, Measurements: model.Measurements{TrimPercent: 120}}, ErrInvalidLineItem},
		{"stump without diameter", model.LineItem{ServiceType: model.ServiceStumpGrinding}, ErrInvalidLineItem},
		{"mulching without acreage", model.LineItem{ServiceType: model.ServiceForestryMulching}, ErrInvalidLineItem},
		{"unknown factor", model.LineItem{ServiceType: model.ServiceRemoval, AFISSFactors: []string{"ghost"}}, ErrUnknownFactor},
		{"unknown class", model.LineItem{ServiceType: model.ServiceRemoval, EquipmentClass: "helicopter"}, ErrInvalidLineItem},
		{"unknown urgency", model.LineItem{ServiceType: model.ServiceRemoval, Urgency: "yesterday"}, ErrInvalidLineItem},
	}

	for _, tc := range cases {
		if _, err := Price(tc.item, table); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestPriceLineItemFillsComputedFields(t *testing.T) {
	item := removal()
	item.Flags.NearStructure = true
	item.AFISSFactors = []string{"limited_access"}

	priced, err := PriceLineItem(item, DefaultRateTable())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	nearlyEqual(t, "treeScore", priced.TreeScore, 74)
	nearlyEqual(t, "multiplier", priced.AFISSMultiplier, 1.25)
	nearlyEqual(t, "afScore", priced.AFScore, (74+5)*1.25)
	nearlyEqual(t, "total", priced.TotalPrice, (74+5)*1.25*8.5)
	if len(priced.AFISSFactors) != 2 {
		t.Fatalf("expected explicit and flag factors, got %v", priced.AFISSFactors)
	}
}

func TestDefaultRateTableIsValid(t *testing.T) {
	table := DefaultRateTable()
	if len(table.Rates()) != len(model.ServiceTypes) {
		t.Fatalf("expected a rate per service type")
	}
	for _, r := range table.Rates() {
		if err := r.Validate(); err != nil {
			t.Fatalf("%s: %v", r.ServiceType, err)
		}
	}

	table[model.ServiceRemoval] = ServiceRate{}
	if fresh := DefaultRateTable(); fresh[model.ServiceRemoval].BaseRate != 8.5 {
		t.Fatalf("default table must not be shared")
	}
}

func TestPriceCrewFactorNeverNegative(t *testing.T) {
	table := DefaultRateTable()
	steep := table[model.ServiceRemoval]
	steep.CrewStepPercent = 60
	table[model.ServiceRemoval] = steep

	item := removal()
	item.CrewSize = 1
	item.IncludeCleanup = true

	q, err := Price(item, table)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	nearlyEqual(t, "crewFactor", q.CrewFactor, 0)
	if q.UnitPrice < 0 || q.Subtotal < 0 || q.Cleanup < 0 {
		t.Fatalf("expected non-negative amounts, got unit %v subtotal %v cleanup %v", q.UnitPrice, q.Subtotal, q.Cleanup)
	}
	if !q.MinimumApplied || q.Total != steep.Minimum {
		t.Fatalf("expected minimum charge %v, got %v", steep.Minimum, q.Total)
	}
}

func TestValidateRejectsCrewStepThatZeroesSmallCrews(t *testing.T) {
	r := DefaultRateTable()[model.ServiceRemoval]

	r.CrewStepPercent = 50
	if err := r.Validate(); !errors.Is(err, ErrInvalidLineItem) {
		t.Fatalf("expected ErrInvalidLineItem for step 50%% with baseline 3, got %v", err)
	}

	r.CrewStepPercent = 49
	if err := r.Validate(); err != nil {
		t.Fatalf("step 49%% with baseline 3 should be valid: %v", err)
	}

	r.BaselineCrew = 1
	r.CrewStepPercent = 400
	if err := r.Validate(); err != nil {
		t.Fatalf("baseline crew 1 never shrinks: %v", err)
	}
}
