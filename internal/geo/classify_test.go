package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akshita1420/maj-proj/internal/model"
)

func TestRateColor(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want string
	}{
		{"minimum", 0, "#ffffb2"},
		{"second bin", 15, "#fed976"},
		{"fourth bin", 35, "#fd8d3c"},
		{"maximum", 60, "#bd0026"},
		{"below range", -5, "#ffffb2"},
		{"above range", 90, "#bd0026"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RateColor(tt.v, 0, 60))
		})
	}
}

func TestRateColor_DegenerateRange(t *testing.T) {
	assert.Equal(t, "#ffffb2", RateColor(7, 7, 7))
}

func TestTierColor(t *testing.T) {
	assert.Equal(t, "#d73027", TierColor(model.TierHigh))
	assert.Equal(t, "#fc8d59", TierColor(model.TierMedium))
	assert.Equal(t, "#1a9850", TierColor(model.TierLow))
	assert.Equal(t, NoDataColor, TierColor(""))
	assert.Equal(t, NoDataColor, TierColor("Unknown"))
}
