package treescore

import (
	"errors"
	"fmt"
	"slices"

	"github.com/canopyworks/arborcost/internal/model"
)

var ErrUnknownFactor = errors.New("unknown AFISS factor")

// Category groups AFISS factors for display.
type Category string

const (
	CategoryAccess       Category = "access"
	CategoryFallZone     Category = "fall_zone"
	CategoryInterference Category = "interference"
	CategorySeverity     Category = "severity"
	CategorySite         Category = "site"
)

var Categories = []Category{
	CategoryAccess,
	CategoryFallZone,
	CategoryInterference,
	CategorySeverity,
	CategorySite,
}

// Factor is one selectable AFISS risk/access condition. Percent is its uplift
// on the multiplier; Points is added to the base score before the multiplier.
type Factor struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Percent  float64  `json:"percent"`
	Points   float64  `json:"points"`
}

const (
	FactorNearStructure = "near_structure"
	FactorPowerLines    = "power_lines"
	FactorSlope         = "slope"
)

var catalog = []Factor{
	{ID: "limited_access", Name: "Limited access (gate under 6 ft)", Category: CategoryAccess, Percent: 10},
	{ID: "no_truck_access", Name: "No truck access", Category: CategoryAccess, Percent: 20},
	{ID: "long_carry", Name: "Long carry to chipper", Category: CategoryAccess, Percent: 10},

	{ID: FactorNearStructure, Name: "Near structure", Category: CategoryFallZone, Percent: 15, Points: 5},
	{ID: "over_roof", Name: "Limbs over roof", Category: CategoryFallZone, Percent: 25, Points: 10},
	{ID: "restricted_drop_zone", Name: "Restricted drop zone", Category: CategoryFallZone, Percent: 15},

	{ID: FactorPowerLines, Name: "Power lines", Category: CategoryInterference, Percent: 25, Points: 10},
	{ID: "service_drop", Name: "Utility service drop", Category: CategoryInterference, Percent: 10},
	{ID: "fence_hardscape", Name: "Fence or hardscape", Category: CategoryInterference, Percent: 5},
	{ID: "traffic_control", Name: "Traffic control", Category: CategoryInterference, Percent: 15},

	{ID: "dead_hazard", Name: "Dead or hazardous tree", Category: CategorySeverity, Percent: 20, Points: 5},
	{ID: "decay_cavity", Name: "Decay or cavity", Category: CategorySeverity, Percent: 10},
	{ID: "storm_hanger", Name: "Storm damage or hangers", Category: CategorySeverity, Percent: 15},
	{ID: "multi_stem", Name: "Multi-stem", Category: CategorySeverity, Percent: 5},

	{ID: FactorSlope, Name: "Slope", Category: CategorySite, Percent: 10},
	{ID: "soft_ground", Name: "Soft ground or turf protection", Category: CategorySite, Percent: 5},
	{ID: "wetland", Name: "Wetland or water", Category: CategorySite, Percent: 10},
	{ID: "heavy_landscaping", Name: "Heavy landscaping", Category: CategorySite, Percent: 5},
}

var catalogIndex = func() map[string]Factor {
	idx := make(map[string]Factor, len(catalog))
	for _, f := range catalog {
		idx[f.ID] = f
	}
	return idx
}()

// Catalog returns the factor catalog grouped by category order.
func Catalog() []Factor {
	out := make([]Factor, 0, len(catalog))
	for _, c := range Categories {
		for _, f := range catalog {
			if f.Category == c {
				out = append(out, f)
			}
		}
	}
	return out
}

// LookupFactor returns the catalog factor with the given ID.
func LookupFactor(id string) (Factor, bool) {
	f, ok := catalogIndex[id]
	return f, ok
}

// Selection is a set of chosen factors. Factors may be combined freely.
type Selection struct {
	Factors []Factor `json:"factors"`
	Percent float64  `json:"percent"`
	Points  float64  `json:"points"`
}

// Select resolves factor IDs against the catalog. Duplicates count once.
func Select(ids ...string) (Selection, error) {
	var sel Selection
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		f, ok := LookupFactor(id)
		if !ok {
			return Selection{}, fmt.Errorf("%w: %q", ErrUnknownFactor, id)
		}
		seen[id] = struct{}{}
		sel.Factors = append(sel.Factors, f)
		sel.Percent += f.Percent
		sel.Points += f.Points
	}
	return sel, nil
}

// SelectForItem combines the explicitly chosen factors with those implied by
// the item's site flags.
func SelectForItem(item model.LineItem) (Selection, error) {
	ids := slices.Clone(item.AFISSFactors)
	if item.Flags.NearStructure {
		ids = append(ids, FactorNearStructure)
	}
	if item.Flags.PowerLines {
		ids = append(ids, FactorPowerLines)
	}
	if item.Flags.Slope {
		ids = append(ids, FactorSlope)
	}
	return Select(ids...)
}

// Multiplier is 1 + Σpercent/100.
func (s Selection) Multiplier() float64 {
	return 1 + s.Percent/100
}

// Apply returns (base + points) × multiplier, unrounded.
func (s Selection) Apply(base float64) float64 {
	return (base + s.Points) * s.Multiplier()
}

// IDs lists the selected factor IDs in selection order.
func (s Selection) IDs() []string {
	ids := make([]string, len(s.Factors))
	for i, f := range s.Factors {
		ids[i] = f.ID
	}
	return ids
}
