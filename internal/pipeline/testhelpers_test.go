package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akshita1420/maj-proj/internal/config"
)

const populationCSV = `District,Population
Chennai,1000000
Kancheepuram,500000
Salem,200000
Madurai,400000
Coimbatore,800000
Erode,250000
`

const accidentCSV = `District,Total Accidents 2021,Total Accidents 2022,Total Accidents 2023
Chennai City,500,600,300
Chengalpattu,250,260,400
Salem,100,110,150
Madurai,40,30,20
Coimbatore,400,420,440
Erode,60,55,50
Ariyalur,10,12,9
`

const boundaryGeoJSON = `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "properties": {"district": "Chennai District"},
   "geometry": {"type": "Polygon", "coordinates": [[[80.0, 13.0], [80.3, 13.0], [80.3, 13.2], [80.0, 13.2], [80.0, 13.0]]]}},
  {"type": "Feature", "properties": {"district": "Chengalpattu"},
   "geometry": {"type": "Polygon", "coordinates": [[[79.5, 12.5], [80.0, 12.5], [80.0, 13.0], [79.5, 13.0], [79.5, 12.5]]]}},
  {"type": "Feature", "properties": {"district": "Salem"},
   "geometry": {"type": "Polygon", "coordinates": [[[78.0, 11.5], [78.4, 11.5], [78.4, 11.9], [78.0, 11.9], [78.0, 11.5]]]}}
]}`

// testConfig writes the fixture inputs to a temp dir and returns a config
// pointing at them with outputs under <dir>/output.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}

	return &config.Config{
		Data: config.DataConfig{
			PopulationFile: write("population.csv", populationCSV),
			AccidentFile:   write("accidents.csv", accidentCSV),
			BoundaryFile:   write("tamil-nadu.geojson", boundaryGeoJSON),
		},
		Output: config.OutputConfig{
			Dir:         filepath.Join(dir, "output"),
			Merged:      "tn_urban_risk_dataset.csv",
			Clusters:    "tn_urban_risk_with_clusters.csv",
			Temporal:    "tn_temporal_risk_intelligence.csv",
			Explanation: "tn_risk_explanation.csv",
			Priorities:  "tn_decision_support_priorities.csv",
			RateMap:     "tamil_nadu_accident_risk_map.geojson",
			ClusterMap:  "tamil_nadu_ai_risk_clusters.geojson",
			Report:      "tn_risk_report.xlsx",
			Manifest:    "run_manifest.json",
		},
		Years:    []int{2021, 2022, 2023},
		Aliases:  config.DefaultAliases(),
		Cluster:  config.ClusterConfig{Seed: 42, NInit: 10, MaxIter: 300, Tolerance: 1e-4},
		Trend:    config.TrendConfig{EmergingThreshold: 20, ImprovingThreshold: -20},
		Priority: config.PriorityConfig{CoverageCutoff: 0.6},
	}
}

func newRunner(t *testing.T, cfg *config.Config) *Runner {
	t.Helper()
	r, err := New(cfg, nil)
	require.NoError(t, err)
	return r
}
