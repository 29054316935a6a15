package risk

import (
	"math"
	"sort"
	"strconv"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/akshita1420/maj-proj/internal/model"
	"github.com/akshita1420/maj-proj/internal/table"
)

// PriorityOptions configures Prioritize.
type PriorityOptions struct {
	Year           int
	CoverageCutoff float64 // cumulative fraction at or below which a district is high priority

	MergedFile      string
	ExplanationFile string
}

// PriorityResult is the ranked intervention plan.
type PriorityResult struct {
	Table   *table.Table
	Records []model.PriorityRecord
	Dropped int // merged rows with no usable attribution or rate
	High    int
}

// Prioritize joins the merged dataset with attribution on District, scores
// each district by rate times its dominant weight, and ranks them by
// descending impact. Districts inside the cutoff share of cumulative impact
// are high priority.
func Prioritize(merged, explanation *table.Table, opts PriorityOptions) (*PriorityResult, error) {
	rateCol := model.RateColumn(opts.Year)
	if err := merged.Require(opts.MergedFile, model.ColDistrict, rateCol); err != nil {
		return nil, err
	}
	if err := explanation.Require(opts.ExplanationFile,
		model.ColDistrict, model.ColPopulationWeight, model.ColAccidentVolumeWeight, model.ColDominantDriver); err != nil {
		return nil, err
	}

	log := zap.L().With(zap.String("component", "risk.priority"))

	// First attribution row per district.
	byDistrict := make(map[string]int, explanation.Len())
	for i := range explanation.Rows {
		name := explanation.Value(i, model.ColDistrict)
		if _, ok := byDistrict[name]; !ok {
			byDistrict[name] = i
		}
	}

	rates := floatColumn(merged, rateCol)
	res := &PriorityResult{}
	var rows []int
	var recs []model.PriorityRecord
	for i := range merged.Rows {
		name := merged.Value(i, model.ColDistrict)
		j, ok := byDistrict[name]
		if !ok {
			res.Dropped++
			log.Debug("no attribution for district, dropping", zap.String("district", name))
			continue
		}
		wp := model.ParseFloat(explanation.Value(j, model.ColPopulationWeight))
		wa := model.ParseFloat(explanation.Value(j, model.ColAccidentVolumeWeight))
		if !rates[i].Valid || !wp.Valid || !wa.Valid {
			res.Dropped++
			log.Debug("undefined rate or weight, dropping", zap.String("district", name))
			continue
		}
		rows = append(rows, i)
		recs = append(recs, model.PriorityRecord{
			Name:             name,
			Rate:             rates[i].V,
			PopulationWeight: wp.V,
			AccidentWeight:   wa.V,
			DominantDriver:   explanation.Value(j, model.ColDominantDriver),
			ImpactScore:      rates[i].V * math.Max(wp.V, wa.V),
		})
	}

	order := make([]int, len(recs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return recs[order[a]].ImpactScore > recs[order[b]].ImpactScore
	})

	impacts := make([]float64, len(order))
	for r, k := range order {
		impacts[r] = recs[k].ImpactScore
	}
	cumulative := make([]float64, len(impacts))
	if len(impacts) > 0 {
		floats.CumSum(cumulative, impacts)
	}
	var total float64
	if len(cumulative) > 0 {
		total = cumulative[len(cumulative)-1]
	}
	if total == 0 && len(impacts) > 0 {
		log.Warn("total impact is zero; every district is secondary")
	}

	ranked := make([]int, len(order))
	res.Records = make([]model.PriorityRecord, len(order))
	for r, k := range order {
		rec := recs[k]
		rec.Rank = r + 1
		rec.CumulativeImpact = cumulative[r]
		rec.CumulativeFraction = 1
		if total > 0 {
			rec.CumulativeFraction = cumulative[r] / total
		}
		if total > 0 && rec.CumulativeFraction <= opts.CoverageCutoff {
			rec.Priority = model.PriorityHigh
			res.High++
		} else {
			rec.Priority = model.PrioritySecondary
		}
		res.Records[r] = rec
		ranked[r] = rows[k]
	}

	out := merged.Reorder(ranked)
	column := func(f func(model.PriorityRecord) string) []string {
		vals := make([]string, len(res.Records))
		for i, rec := range res.Records {
			vals[i] = f(rec)
		}
		return vals
	}
	out.SetColumn(model.ColPopulationWeight, column(func(r model.PriorityRecord) string { return formatFloat(r.PopulationWeight) }))
	out.SetColumn(model.ColAccidentVolumeWeight, column(func(r model.PriorityRecord) string { return formatFloat(r.AccidentWeight) }))
	out.SetColumn(model.ColDominantDriver, column(func(r model.PriorityRecord) string { return r.DominantDriver }))
	out.SetColumn(model.ColImpactScore, column(func(r model.PriorityRecord) string { return formatFloat(r.ImpactScore) }))
	out.SetColumn(model.ColPriorityRank, column(func(r model.PriorityRecord) string { return strconv.Itoa(r.Rank) }))
	out.SetColumn(model.ColCumulativeImpact, column(func(r model.PriorityRecord) string { return formatFloat(r.CumulativeImpact) }))
	out.SetColumn(model.ColCumulativeFraction, column(func(r model.PriorityRecord) string { return formatFloat(r.CumulativeFraction) }))
	out.SetColumn(model.ColPolicyPriority, column(func(r model.PriorityRecord) string { return r.Priority }))

	res.Table = out
	return res, nil
}
