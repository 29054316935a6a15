// Package risk implements the district risk analytics stages: merge and
// per-capita normalization, k-means tiering, temporal trends, contribution
// attribution and cumulative-impact prioritization.
package risk

import (
	"strconv"

	"github.com/akshita1420/maj-proj/internal/model"
	"github.com/akshita1420/maj-proj/internal/table"
)

// per100k is the population base for rates.
const per100k = 100_000

// floatColumn parses every cell of col into an optional float.
func floatColumn(t *table.Table, col string) []model.Float {
	raw := t.Column(col)
	out := make([]model.Float, len(raw))
	for i, s := range raw {
		out[i] = model.ParseFloat(s)
	}
	return out
}

// Rate returns accidents per 100k population. The guard runs before the
// division: an undefined count or a missing or non-positive population gives
// an undefined rate. Scaling happens before dividing so integral counts give
// a correctly rounded quotient (300 per 1,000,000 is exactly 30).
func Rate(accidents, population model.Float) model.Float {
	if !accidents.Valid || !population.Positive() {
		return model.None()
	}
	return model.Some(accidents.V * per100k / population.V)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloats(vals []model.Float) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.String()
	}
	return out
}
