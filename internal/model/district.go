package model

// Tier labels, ordered from lowest to highest relative risk.
const (
	TierLow    = "Low Risk"
	TierMedium = "Medium Risk"
	TierHigh   = "High Risk"
)

// TierLabels lists the tier ladder in ascending order.
var TierLabels = []string{TierLow, TierMedium, TierHigh}

// Trend categories.
const (
	TrendInsufficient = "Insufficient Data"
	TrendEmerging     = "Emerging High Risk"
	TrendIncreasing   = "Gradually Increasing Risk"
	TrendImproving    = "Significantly Improving"
	TrendStable       = "Stable / Minor Change"
)

// Dominant risk drivers.
const (
	DriverPopulation = "Population Exposure"
	DriverAccidents  = "Accident Intensity"
)

// Policy priorities.
const (
	PriorityHigh      = "High Priority Intervention Zone"
	PrioritySecondary = "Secondary Monitoring Zone"
)

// DistrictRecord is one accident-table row after merging with population.
type DistrictRecord struct {
	Name       string
	Key        string
	Population Float
	Accidents  map[int]Float // by year
	Rates      map[int]Float // accidents per 100k, by year
}

// TierAssignment is the risk tier of one clustered district.
type TierAssignment struct {
	Name    string
	Cluster int
	Label   string
}

// TrendClassification is the temporal trend of one district.
type TrendClassification struct {
	Name     string
	Delta    Float
	Category string
}

// AttributionRecord decomposes one district's risk into population and
// accident-volume contributions.
type AttributionRecord struct {
	Name                       string
	Key                        string
	Population                 float64
	Accidents                  float64
	Rate                       float64
	ZPopulation                float64
	ZAccidents                 float64
	ZRisk                      float64
	PopulationContribution     float64
	AccidentVolumeContribution float64
	PopulationWeight           float64
	AccidentVolumeWeight       float64
	DominantDriver             string
}

// PriorityRecord is one ranked district in the intervention plan.
type PriorityRecord struct {
	Name               string
	Rate               float64
	PopulationWeight   float64
	AccidentWeight     float64
	DominantDriver     string
	ImpactScore        float64
	Rank               int
	CumulativeImpact   float64
	CumulativeFraction float64
	Priority           string
}
