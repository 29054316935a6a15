package risk

import (
	"github.com/akshita1420/maj-proj/internal/model"
	"github.com/akshita1420/maj-proj/internal/table"
)

// TrendOptions configures Trend. Thresholds are absolute rate-per-100k deltas.
type TrendOptions struct {
	From               int
	To                 int
	EmergingThreshold  float64 // delta strictly above is Emerging High Risk
	ImprovingThreshold float64 // delta strictly below is Significantly Improving
	File               string
}

// TrendResult is the merged dataset with trend columns attached.
type TrendResult struct {
	Table           *table.Table
	Classifications []model.TrendClassification
	Counts          map[string]int
}

// ClassifyTrend buckets a rate delta. Checks run in order: undefined,
// above emerging, above zero, below improving, otherwise stable.
func ClassifyTrend(delta model.Float, emerging, improving float64) string {
	switch {
	case !delta.Valid:
		return model.TrendInsufficient
	case delta.V > emerging:
		return model.TrendEmerging
	case delta.V > 0:
		return model.TrendIncreasing
	case delta.V < improving:
		return model.TrendImproving
	default:
		return model.TrendStable
	}
}

// Trend computes rate(To) - rate(From) per district and classifies it.
func Trend(merged *table.Table, opts TrendOptions) (*TrendResult, error) {
	fromCol, toCol := model.RateColumn(opts.From), model.RateColumn(opts.To)
	if err := merged.Require(opts.File, model.ColDistrict, fromCol, toCol); err != nil {
		return nil, err
	}

	from := floatColumn(merged, fromCol)
	to := floatColumn(merged, toCol)

	out := merged.Clone()
	deltas := make([]model.Float, out.Len())
	categories := make([]string, out.Len())
	res := &TrendResult{Table: out, Counts: make(map[string]int)}

	for i := range deltas {
		deltas[i] = model.Sub(to[i], from[i])
		categories[i] = ClassifyTrend(deltas[i], opts.EmergingThreshold, opts.ImprovingThreshold)
		res.Counts[categories[i]]++
		res.Classifications = append(res.Classifications, model.TrendClassification{
			Name:     merged.Value(i, model.ColDistrict),
			Delta:    deltas[i],
			Category: categories[i],
		})
	}

	out.SetColumn(model.ChangeColumn(opts.From, opts.To), formatFloats(deltas))
	out.SetColumn(model.ColTrendCategory, categories)
	return res, nil
}
