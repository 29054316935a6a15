package geo

import (
	"math"

	"github.com/akshita1420/maj-proj/internal/model"
)

// NoDataColor fills districts without a value.
const NoDataColor = "#cccccc"

// ylOrRd is the six-class ColorBrewer YlOrRd ramp, light to dark.
var ylOrRd = []string{"#ffffb2", "#fed976", "#feb24c", "#fd8d3c", "#f03b20", "#bd0026"}

// tierColors maps risk tiers onto the diverging red-green ramp.
var tierColors = map[string]string{
	model.TierHigh:   "#d73027",
	model.TierMedium: "#fc8d59",
	model.TierLow:    "#1a9850",
}

// RateColor places v into one of six equal-width bins over [lo, hi]. A
// degenerate range puts every value in the first bin.
func RateColor(v, lo, hi float64) string {
	if hi <= lo {
		return ylOrRd[0]
	}
	i := int(math.Floor((v - lo) / (hi - lo) * float64(len(ylOrRd))))
	i = max(0, min(i, len(ylOrRd)-1))
	return ylOrRd[i]
}

// TierColor returns the fill for a tier label, NoDataColor for anything else.
func TierColor(label string) string {
	if c, ok := tierColors[label]; ok {
		return c
	}
	return NoDataColor
}
