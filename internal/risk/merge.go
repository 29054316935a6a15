package risk

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/akshita1420/maj-proj/internal/district"
	"github.com/akshita1420/maj-proj/internal/model"
	"github.com/akshita1420/maj-proj/internal/table"
)

// MergeOptions configures Merge.
type MergeOptions struct {
	Years   []int
	Aliases *district.AliasTable

	// File names used in schema errors.
	PopulationFile string
	AccidentFile   string
}

// MergeStats counts the data quality issues found while merging. None of
// them are fatal.
type MergeStats struct {
	Rows                    int `json:"rows"`
	Unmatched               int `json:"unmatched"`
	MissingPopulation       int `json:"missing_population"`
	NonPositivePopulation   int `json:"non_positive_population"`
	InvalidCounts           int `json:"invalid_counts"`
	DuplicatePopulationKeys int `json:"duplicate_population_keys"`
}

// Warnings returns the total of all non-fatal issues.
func (s MergeStats) Warnings() int {
	return s.MissingPopulation + s.NonPositivePopulation + s.InvalidCounts + s.DuplicatePopulationKeys
}

// MergeResult is the canonical merged dataset.
type MergeResult struct {
	Table   *table.Table
	Records []model.DistrictRecord
	Stats   MergeStats
}

// MergeRequirements returns the required population and accident columns.
func MergeRequirements(years []int) (pop, acc []string) {
	pop = []string{model.ColDistrict, model.ColPopulation}
	acc = []string{model.ColDistrict}
	for _, y := range years {
		acc = append(acc, model.AccidentColumn(y))
	}
	return pop, acc
}

// Merge left-joins accident rows onto population by reconciled district key
// and derives per-100k rates for every year. Every accident row is kept.
func Merge(pop, acc *table.Table, opts MergeOptions) (*MergeResult, error) {
	if len(opts.Years) == 0 {
		return nil, eris.New("risk: merge needs at least one year")
	}
	popCols, accCols := MergeRequirements(opts.Years)
	if err := pop.Require(opts.PopulationFile, popCols...); err != nil {
		return nil, err
	}
	if err := acc.Require(opts.AccidentFile, accCols...); err != nil {
		return nil, err
	}

	log := zap.L().With(zap.String("component", "risk.merge"))
	var stats MergeStats

	// Population keys are normalized only; aliases apply to the accident side.
	population := make(map[string]string, pop.Len())
	for i := range pop.Rows {
		key := district.Normalize(pop.Value(i, model.ColDistrict))
		if _, dup := population[key]; dup {
			stats.DuplicatePopulationKeys++
			log.Warn("duplicate district in population table, keeping first",
				zap.String("district", key))
			continue
		}
		population[key] = pop.Value(i, model.ColPopulation)
	}

	out := acc.Clone()
	n := out.Len()
	stats.Rows = n

	keys := make([]string, n)
	pops := make([]model.Float, n)
	rates := make(map[int][]model.Float, len(opts.Years))
	for _, y := range opts.Years {
		rates[y] = make([]model.Float, n)
	}

	records := make([]model.DistrictRecord, n)
	for i := range n {
		name := out.Value(i, model.ColDistrict)
		keys[i] = opts.Aliases.Key(name)

		raw, matched := population[keys[i]]
		if !matched {
			stats.Unmatched++
		}
		pops[i] = model.ParseFloat(raw)
		switch {
		case !pops[i].Valid:
			stats.MissingPopulation++
		case !pops[i].Positive():
			stats.NonPositivePopulation++
		}

		rec := model.DistrictRecord{
			Name:       name,
			Key:        keys[i],
			Population: pops[i],
			Accidents:  make(map[int]model.Float, len(opts.Years)),
			Rates:      make(map[int]model.Float, len(opts.Years)),
		}
		for _, y := range opts.Years {
			count := model.ParseFloat(out.Value(i, model.AccidentColumn(y)))
			if count.Valid && count.V < 0 {
				count = model.None()
			}
			if !count.Valid {
				stats.InvalidCounts++
			}
			rec.Accidents[y] = count
			rec.Rates[y] = Rate(count, pops[i])
			rates[y][i] = rec.Rates[y]
		}
		records[i] = rec
	}

	if stats.MissingPopulation > 0 {
		log.Warn("rows have missing or invalid population after merge; per-100k rates are undefined for those rows",
			zap.Int("rows", stats.MissingPopulation),
			zap.Int("unmatched", stats.Unmatched))
	}
	if stats.NonPositivePopulation > 0 {
		log.Warn("rows have non-positive population; per-100k rates are undefined for those rows",
			zap.Int("rows", stats.NonPositivePopulation))
	}
	if stats.InvalidCounts > 0 {
		log.Warn("accident counts are missing, non-numeric or negative; treated as undefined",
			zap.Int("cells", stats.InvalidCounts))
	}

	out.SetColumn(model.ColDistrictClean, keys)
	out.SetColumn(model.ColPopulation, formatFloats(pops))
	for _, y := range opts.Years {
		out.SetColumn(model.RateColumn(y), formatFloats(rates[y]))
	}

	return &MergeResult{Table: out, Records: records, Stats: stats}, nil
}
