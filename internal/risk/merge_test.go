package risk

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akshita1420/maj-proj/internal/district"
	"github.com/akshita1420/maj-proj/internal/model"
	"github.com/akshita1420/maj-proj/internal/table"
)

var testYears = []int{2021, 2022, 2023}

func testAliases(t *testing.T) *district.AliasTable {
	t.Helper()
	a, err := district.NewAliasTable(map[string]string{
		"chennai city": "chennai",
		"chengalpattu": "kancheepuram",
	})
	require.NoError(t, err)
	return a
}

func populationTable(rows ...[]string) *table.Table {
	return table.New([]string{"District", "Population"}, rows)
}

func accidentTable(rows ...[]string) *table.Table {
	return table.New([]string{"District", "Total Accidents 2021", "Total Accidents 2022", "Total Accidents 2023"}, rows)
}

func mergeOpts(t *testing.T) MergeOptions {
	return MergeOptions{
		Years:          testYears,
		Aliases:        testAliases(t),
		PopulationFile: "population.csv",
		AccidentFile:   "accidents.csv",
	}
}

func TestRate(t *testing.T) {
	tests := []struct {
		name      string
		accidents model.Float
		pop       model.Float
		want      model.Float
	}{
		{"exact", model.Some(300), model.Some(1_000_000), model.Some(30)},
		{"fractional", model.Some(1), model.Some(3), model.Some(100_000.0 / 3)},
		{"zero accidents", model.Some(0), model.Some(500), model.Some(0)},
		{"undefined population", model.Some(10), model.None(), model.None()},
		{"zero population", model.Some(10), model.Some(0), model.None()},
		{"negative population", model.Some(10), model.Some(-5), model.None()},
		{"undefined count", model.None(), model.Some(100), model.None()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rate(tt.accidents, tt.pop))
		})
	}
}

func TestMerge_ChennaiAlias(t *testing.T) {
	pop := populationTable([]string{"Chennai", "1000000"})
	acc := accidentTable([]string{"Chennai City", "500", "600", "300"})

	res, err := Merge(pop, acc, mergeOpts(t))
	require.NoError(t, err)
	require.Equal(t, 1, res.Table.Len())

	out := res.Table
	assert.Equal(t, "Chennai City", out.Value(0, model.ColDistrict))
	assert.Equal(t, "chennai", out.Value(0, model.ColDistrictClean))
	assert.Equal(t, "1000000", out.Value(0, model.ColPopulation))
	assert.Equal(t, "50", out.Value(0, "accidents_per_100k_2021"))
	assert.Equal(t, "60", out.Value(0, "accidents_per_100k_2022"))
	assert.Equal(t, "30", out.Value(0, "accidents_per_100k_2023"))

	rec := res.Records[0]
	assert.Equal(t, 30.0, rec.Rates[2023].V)
	assert.Equal(t, 0, res.Stats.Warnings())
}

func TestMerge_ColumnOrder(t *testing.T) {
	pop := populationTable([]string{"Salem", "100000"})
	acc := accidentTable([]string{"Salem", "1", "2", "3"})

	res, err := Merge(pop, acc, mergeOpts(t))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"District", "Total Accidents 2021", "Total Accidents 2022", "Total Accidents 2023",
		"district_clean", "Population",
		"accidents_per_100k_2021", "accidents_per_100k_2022", "accidents_per_100k_2023",
	}, res.Table.Header)
}

func TestMerge_UnmatchedKeepsRowWithUndefinedRate(t *testing.T) {
	pop := populationTable([]string{"Salem", "100000"})
	acc := accidentTable(
		[]string{"Salem", "10", "20", "30"},
		[]string{"Ariyalur", "5", "6", "7"},
	)

	res, err := Merge(pop, acc, mergeOpts(t))
	require.NoError(t, err)
	require.Equal(t, 2, res.Table.Len())

	assert.Equal(t, "", res.Table.Value(1, model.ColPopulation))
	for _, y := range testYears {
		assert.Equal(t, "", res.Table.Value(1, model.RateColumn(y)))
		assert.False(t, res.Records[1].Rates[y].Valid)
	}
	assert.Equal(t, 1, res.Stats.Unmatched)
	assert.Equal(t, 1, res.Stats.MissingPopulation)
}

func TestMerge_DataQuality(t *testing.T) {
	pop := populationTable(
		[]string{"Salem", "100000"},
		[]string{" SALEM ", "999"},
		[]string{"Erode", "0"},
		[]string{"Karur", "n/a"},
	)
	acc := accidentTable(
		[]string{"Salem", "-4", "abc", "10"},
		[]string{"Erode", "1", "1", "1"},
		[]string{"Karur", "1", "1", "1"},
	)

	res, err := Merge(pop, acc, mergeOpts(t))
	require.NoError(t, err)

	// First population row wins for duplicate keys.
	assert.Equal(t, "100000", res.Table.Value(0, model.ColPopulation))
	assert.Equal(t, "10", res.Table.Value(0, "accidents_per_100k_2023"))
	// Negative and non-numeric counts are undefined.
	assert.Equal(t, "", res.Table.Value(0, "accidents_per_100k_2021"))
	assert.Equal(t, "", res.Table.Value(0, "accidents_per_100k_2022"))
	// Zero population gives no rate.
	assert.Equal(t, "", res.Table.Value(1, "accidents_per_100k_2023"))

	assert.Equal(t, MergeStats{
		Rows:                    3,
		Unmatched:               0,
		MissingPopulation:       1,
		NonPositivePopulation:   1,
		InvalidCounts:           2,
		DuplicatePopulationKeys: 1,
	}, res.Stats)
	assert.Equal(t, 5, res.Stats.Warnings())
}

func TestMerge_MissingColumns(t *testing.T) {
	pop := table.New([]string{"District", "Pop"}, nil)
	acc := accidentTable()

	_, err := Merge(pop, acc, mergeOpts(t))
	require.Error(t, err)

	var schemaErr *table.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "population.csv", schemaErr.File)
	assert.Equal(t, []string{"Population"}, schemaErr.Missing)

	pop = populationTable()
	acc = table.New([]string{"District", "Total Accidents 2021"}, nil)
	_, err = Merge(pop, acc, mergeOpts(t))
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "accidents.csv", schemaErr.File)
	assert.Equal(t, []string{"Total Accidents 2022", "Total Accidents 2023"}, schemaErr.Missing)
}

func TestMerge_NoYears(t *testing.T) {
	_, err := Merge(populationTable(), accidentTable(), MergeOptions{})
	assert.Error(t, err)
}
