package model

import "github.com/google/uuid"

// ServiceType keys the rate table.
type ServiceType string

const (
	ServiceRemoval          ServiceType = "removal"
	ServiceTrimming         ServiceType = "trimming"
	ServiceStumpGrinding    ServiceType = "stump_grinding"
	ServiceForestryMulching ServiceType = "forestry_mulching"
	ServiceLandClearing     ServiceType = "land_clearing"
)

var ServiceTypes = []ServiceType{
	ServiceRemoval,
	ServiceTrimming,
	ServiceStumpGrinding,
	ServiceForestryMulching,
	ServiceLandClearing,
}

// EquipmentClass is the heaviest equipment a line item needs.
type EquipmentClass string

const (
	EquipmentClassHand    EquipmentClass = "hand"
	EquipmentClassBucket  EquipmentClass = "bucket"
	EquipmentClassCrane   EquipmentClass = "crane"
	EquipmentClassGrinder EquipmentClass = "grinder"
	EquipmentClassMulcher EquipmentClass = "mulcher"
)

// Urgency is the scheduling tier of a line item.
type Urgency string

const (
	UrgencyNormal    Urgency = "normal"
	UrgencyPriority  Urgency = "priority"
	UrgencyEmergency Urgency = "emergency"
)

// Measurements holds the type-specific inputs of a line item. Lengths are in
// feet except DBH, stump diameter and grind depth which are in inches.
type Measurements struct {
	Height        float64 `json:"height"`
	DBH           float64 `json:"dbh"`
	CanopyRadius  float64 `json:"canopy_radius"`
	TrimPercent   float64 `json:"trim_percent"`
	StumpDiameter float64 `json:"stump_diameter"`
	GrindDepth    float64 `json:"grind_depth"`
	Acreage       float64 `json:"acreage"`
}

// SiteFlags mark site hazards that imply AFISS factors.
type SiteFlags struct {
	NearStructure bool `json:"near_structure"`
	PowerLines    bool `json:"power_lines"`
	Slope         bool `json:"slope"`
}

// LineItem is one priced service request on a proposal. The computed fields
// are filled in by the pricer.
type LineItem struct {
	ID             uuid.UUID      `json:"id"`
	ServiceType    ServiceType    `json:"service_type"`
	Description    string         `json:"description"`
	Measurements   Measurements   `json:"measurements"`
	Flags          SiteFlags      `json:"flags"`
	AFISSFactors   []string       `json:"afiss_factors"`
	CrewSize       int            `json:"crew_size"`
	EquipmentClass EquipmentClass `json:"equipment_class"`
	IncludeCleanup bool           `json:"include_cleanup"`
	IncludeHauling bool           `json:"include_hauling"`
	Urgency        Urgency        `json:"urgency"`

	TreeScore       float64 `json:"tree_score"`
	AFISSMultiplier float64 `json:"afiss_multiplier"`
	AFScore         float64 `json:"af_score"`
	Quantity        float64 `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	TotalPrice      float64 `json:"total_price"`
}
