package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akshita1420/maj-proj/internal/model"
	"github.com/akshita1420/maj-proj/internal/table"
)

var attributionHeader = []string{
	"District", "district_clean", "Population", "Total Accidents 2023", "accidents_per_100k_2023",
}

func TestAttribute(t *testing.T) {
	merged := table.New(attributionHeader, [][]string{
		{"A", "a", "100", "10", "10"},
		{"B", "b", "200", "40", "20"},
		{"C", "c", "300", "30", "10"},
		{"D", "d", "", "5", ""},
	})

	res, err := Attribute(merged, AttributionOptions{Year: 2023})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Excluded)
	assert.Empty(t, res.ZeroVariance)
	require.Len(t, res.Records, 3)

	// Population 100/200/300: mean 200, sample std 100.
	assert.InDelta(t, -1.0, res.Records[0].ZPopulation, 1e-12)
	assert.InDelta(t, 0.0, res.Records[1].ZPopulation, 1e-12)
	assert.InDelta(t, 1.0, res.Records[2].ZPopulation, 1e-12)

	for _, rec := range res.Records {
		assert.InDelta(t, 1.0, rec.PopulationWeight+rec.AccidentVolumeWeight, 1e-12, rec.Name)
		assert.GreaterOrEqual(t, rec.PopulationWeight, 0.0)
		assert.GreaterOrEqual(t, rec.AccidentVolumeWeight, 0.0)
		if rec.PopulationWeight > rec.AccidentVolumeWeight {
			assert.Equal(t, model.DriverPopulation, rec.DominantDriver)
		} else {
			assert.Equal(t, model.DriverAccidents, rec.DominantDriver)
		}
	}

	// B has z_population 0, so accident volume carries its whole deviation.
	assert.InDelta(t, 1.0, res.Records[1].AccidentVolumeWeight, 1e-12)
	assert.Equal(t, model.DriverAccidents, res.Records[1].DominantDriver)

	assert.Equal(t, []string{
		"District", "district_clean", "Population", "Total Accidents 2023", "accidents_per_100k_2023",
		"z_population", "z_total_accidents", "z_risk",
		"population_contribution", "accident_volume_contribution",
		"population_weight", "accident_volume_weight", "dominant_risk_driver",
	}, res.Table.Header)
	assert.Equal(t, []string{"A", "B", "C"}, res.Table.Column("District"))
}

func TestAttribute_ZeroVariance(t *testing.T) {
	merged := table.New(attributionHeader, [][]string{
		{"A", "a", "100", "10", "10"},
		{"B", "b", "100", "20", "20"},
		{"C", "c", "100", "30", "30"},
	})

	res, err := Attribute(merged, AttributionOptions{Year: 2023})
	require.NoError(t, err)
	assert.Equal(t, []string{"Population"}, res.ZeroVariance)
	for _, rec := range res.Records {
		assert.Equal(t, 0.0, rec.ZPopulation)
		assert.Equal(t, 0.0, rec.PopulationContribution)
	}
	// B sits at the mean of every column: zero total contribution.
	assert.Equal(t, 0.5, res.Records[1].PopulationWeight)
	assert.Equal(t, 0.5, res.Records[1].AccidentVolumeWeight)
	assert.Equal(t, model.DriverAccidents, res.Records[1].DominantDriver)
}

func TestAttribute_SingleRow(t *testing.T) {
	merged := table.New(attributionHeader, [][]string{{"A", "a", "100", "10", "10"}})

	res, err := Attribute(merged, AttributionOptions{Year: 2023})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Len(t, res.ZeroVariance, 3)
	assert.Equal(t, 0.5, res.Records[0].PopulationWeight)
}

func TestAttribute_WithoutDistrictClean(t *testing.T) {
	merged := table.New(
		[]string{"District", "Population", "Total Accidents 2023", "accidents_per_100k_2023"},
		[][]string{{"A", "100", "1", "1"}, {"B", "200", "4", "2"}},
	)
	res, err := Attribute(merged, AttributionOptions{Year: 2023})
	require.NoError(t, err)
	assert.False(t, res.Table.Has(model.ColDistrictClean))
	assert.Equal(t, 2, res.Table.Len())
}

func TestAttributeWeights(t *testing.T) {
	tests := []struct {
		name             string
		zPop, zAcc, zRsk float64
		wantPop          float64
		wantDriver       string
	}{
		{"population dominates", 2, 1, 1, 2.0 / 3, model.DriverPopulation},
		{"accidents dominate", -0.5, 1.5, -2, 0.25, model.DriverAccidents},
		{"tie", 1, -1, 1, 0.5, model.DriverAccidents},
		{"zero risk", 3, 1, 0, 0.5, model.DriverAccidents},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := attribute(tt.zPop, tt.zAcc, tt.zRsk)
			assert.InDelta(t, tt.wantPop, rec.PopulationWeight, 1e-12)
			assert.InDelta(t, 1-tt.wantPop, rec.AccidentVolumeWeight, 1e-12)
			assert.Equal(t, tt.wantDriver, rec.DominantDriver)
		})
	}
}

func TestAttribute_MissingColumns(t *testing.T) {
	merged := table.New([]string{"District", "accidents_per_100k_2023"}, nil)
	_, err := Attribute(merged, AttributionOptions{Year: 2023, File: "merged.csv"})
	var schemaErr *table.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"Population", "Total Accidents 2023"}, schemaErr.Missing)
}
