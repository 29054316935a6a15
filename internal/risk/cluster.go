package risk

import (
	"math"
	"slices"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/akshita1420/maj-proj/internal/kmeans"
	"github.com/akshita1420/maj-proj/internal/model"
	"github.com/akshita1420/maj-proj/internal/table"
)

// TierOptions configures Tier.
type TierOptions struct {
	Year      int // clustering feature is this year's rate
	Seed      uint64
	NInit     int
	MaxIter   int
	Tolerance float64
	File      string // used in schema errors
}

// TierSummary describes one tier of a clustering.
type TierSummary struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// TierResult is the merged dataset with risk tiers attached.
type TierResult struct {
	Table       *table.Table
	Assignments []model.TierAssignment
	Summary     []TierSummary
	Degenerate  bool // fewer distinct rates than tiers; distinct-value fallback used
}

// Tier partitions districts with a defined rate into Low/Medium/High risk.
// Labels are relative: clusters are ranked by mean rate. Rows with an
// undefined rate get empty tier cells.
func Tier(merged *table.Table, opts TierOptions) (*TierResult, error) {
	rateCol := model.RateColumn(opts.Year)
	if err := merged.Require(opts.File, model.ColDistrict, rateCol); err != nil {
		return nil, err
	}

	log := zap.L().With(zap.String("component", "risk.tier"))
	rates := floatColumn(merged, rateCol)

	var rows []int
	var values []float64
	for i, r := range rates {
		if r.Valid {
			rows = append(rows, i)
			values = append(values, r.V)
		}
	}
	if dropped := len(rates) - len(rows); dropped > 0 {
		log.Info("excluding districts with undefined rate from clustering", zap.Int("rows", dropped))
	}

	out := merged.Clone()
	clusterCells := make([]string, out.Len())
	labelCells := make([]string, out.Len())
	res := &TierResult{Table: out}

	if len(values) == 0 {
		log.Warn("no district has a defined rate; no tiers assigned")
		out.SetColumn(model.ColRiskCluster, clusterCells)
		out.SetColumn(model.ColRiskLevel, labelCells)
		return res, nil
	}

	k := len(model.TierLabels)
	var ids []int
	var labelOf map[int]string
	if kmeans.Distinct(toPoints(values)) < k {
		res.Degenerate = true
		ids, labelOf = distinctTiers(values, k)
		log.Warn("fewer distinct rates than tiers; tiering by distinct value",
			zap.Int("distinct", len(labelOf)))
	} else {
		fit, err := kmeans.Fit(toPoints(values), kmeans.Options{
			K:         k,
			Seed:      opts.Seed,
			NInit:     opts.NInit,
			MaxIter:   opts.MaxIter,
			Tolerance: opts.Tolerance,
		})
		if err != nil {
			return nil, eris.Wrap(err, "risk: cluster rates")
		}
		ids = fit.Labels
		labelOf = rankClusters(values, ids)
	}

	for j, row := range rows {
		clusterCells[row] = strconv.Itoa(ids[j])
		labelCells[row] = labelOf[ids[j]]
		res.Assignments = append(res.Assignments, model.TierAssignment{
			Name:    merged.Value(row, model.ColDistrict),
			Cluster: ids[j],
			Label:   labelOf[ids[j]],
		})
	}
	res.Summary = summarize(values, ids, labelOf)

	out.SetColumn(model.ColRiskCluster, clusterCells)
	out.SetColumn(model.ColRiskLevel, labelCells)
	return res, nil
}

func toPoints(values []float64) [][]float64 {
	return lo.Map(values, func(v float64, _ int) []float64 { return []float64{v} })
}

// rankClusters orders cluster ids by mean member value (ties by id) and maps
// rank 0, 1, 2 to Low, Medium, High.
func rankClusters(values []float64, ids []int) map[int]string {
	members := groupByCluster(values, ids)
	order := lo.Keys(members)
	means := lo.MapValues(members, func(v []float64, _ int) float64 { return stat.Mean(v, nil) })
	slices.SortFunc(order, func(a, b int) int {
		if means[a] != means[b] {
			if means[a] < means[b] {
				return -1
			}
			return 1
		}
		return a - b
	})

	labelOf := make(map[int]string, len(order))
	for rank, id := range order {
		labelOf[id] = model.TierLabels[rank]
	}
	return labelOf
}

// distinctTiers is the fallback for fewer than k distinct values: each
// distinct value is its own cluster, and ranks are spread over the label
// ladder so the lowest is Low and the highest is High. A single distinct
// value is Medium.
func distinctTiers(values []float64, k int) ([]int, map[int]string) {
	distinct := lo.Uniq(values)
	slices.Sort(distinct)
	rankOf := make(map[float64]int, len(distinct))
	for r, v := range distinct {
		rankOf[v] = r
	}

	labelOf := make(map[int]string, len(distinct))
	d := len(distinct)
	for r := range distinct {
		idx := (k - 1) / 2
		if d > 1 {
			idx = int(math.Round(float64(r) * float64(k-1) / float64(d-1)))
		}
		labelOf[r] = model.TierLabels[idx]
	}

	ids := make([]int, len(values))
	for i, v := range values {
		ids[i] = rankOf[v]
	}
	return ids, labelOf
}

func groupByCluster(values []float64, ids []int) map[int][]float64 {
	members := make(map[int][]float64)
	for i, id := range ids {
		members[id] = append(members[id], values[i])
	}
	return members
}

func summarize(values []float64, ids []int, labelOf map[int]string) []TierSummary {
	byLabel := make(map[string][]float64)
	for i, id := range ids {
		byLabel[labelOf[id]] = append(byLabel[labelOf[id]], values[i])
	}

	var out []TierSummary
	for _, label := range model.TierLabels {
		v, ok := byLabel[label]
		if !ok {
			continue
		}
		out = append(out, TierSummary{
			Label: label,
			Count: len(v),
			Mean:  stat.Mean(v, nil),
			Min:   floats.Min(v),
			Max:   floats.Max(v),
		})
	}
	return out
}
