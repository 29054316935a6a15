package model

import "fmt"

// Source and derived column names shared by every stage.
const (
	ColDistrict      = "District"
	ColPopulation    = "Population"
	ColDistrictClean = "district_clean"

	ColRiskCluster = "risk_cluster"
	ColRiskLevel   = "risk_level"

	ColTrendCategory = "risk_trend_category"

	ColZPopulation                = "z_population"
	ColZAccidents                 = "z_total_accidents"
	ColZRisk                      = "z_risk"
	ColPopulationContribution     = "population_contribution"
	ColAccidentVolumeContribution = "accident_volume_contribution"
	ColPopulationWeight           = "population_weight"
	ColAccidentVolumeWeight       = "accident_volume_weight"
	ColDominantDriver             = "dominant_risk_driver"

	ColImpactScore        = "impact_score"
	ColPriorityRank       = "priority_rank"
	ColCumulativeImpact   = "cumulative_impact"
	ColCumulativeFraction = "cumulative_impact_pct"
	ColPolicyPriority     = "policy_priority"
)

// AccidentColumn names the raw accident count column for a year.
func AccidentColumn(year int) string {
	return fmt.Sprintf("Total Accidents %d", year)
}

// RateColumn names the per-100k rate column for a year.
func RateColumn(year int) string {
	return fmt.Sprintf("accidents_per_100k_%d", year)
}

// ChangeColumn names the rate delta column between two years, e.g. risk_change_21_23.
func ChangeColumn(from, to int) string {
	return fmt.Sprintf("risk_change_%02d_%02d", from%100, to%100)
}
