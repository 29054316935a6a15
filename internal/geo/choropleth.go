package geo

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/samber/lo"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"

	"github.com/akshita1420/maj-proj/internal/model"
	"github.com/akshita1420/maj-proj/internal/table"
)

// Feature properties added for the renderers.
const (
	PropFillColor  = "fill_color"
	PropTooltip    = "tooltip"
	PropLabelPoint = "label_point"
)

// noData is shown in tooltips for districts without a value.
const noData = "No data"

// MapStats counts how many boundary features found a row in the dataset.
type MapStats struct {
	Features  int      `json:"features"`
	Matched   int      `json:"matched"`
	Unmatched []string `json:"unmatched,omitempty"`
}

// RateMap joins the year's per-100k rate onto each boundary by district key
// and colors it on the YlOrRd ramp spanning the defined rates.
func RateMap(boundaries []Boundary, merged *table.Table, year int, file string) (*geojson.FeatureCollection, MapStats, error) {
	rateCol := model.RateColumn(year)
	if err := merged.Require(file, model.ColDistrictClean, rateCol); err != nil {
		return nil, MapStats{}, err
	}

	rates := make(map[string]model.Float, merged.Len())
	var defined []float64
	for i := range merged.Rows {
		key := merged.Value(i, model.ColDistrictClean)
		r := model.ParseFloat(merged.Value(i, rateCol))
		if _, seen := rates[key]; seen {
			continue
		}
		rates[key] = r
		if r.Valid {
			defined = append(defined, r.V)
		}
	}
	minRate, maxRate := bounds(defined)

	var stats MapStats
	fc := newCollection(boundaries, func(b Boundary, props map[string]any) {
		props[model.ColDistrictClean] = b.Key
		r, ok := rates[b.Key]
		stats.count(b.Key, ok)

		shown := noData
		props[rateCol] = nil
		props[PropFillColor] = NoDataColor
		if r.Valid {
			shown = r.String()
			props[rateCol] = r.V
			props[PropFillColor] = RateColor(r.V, minRate, maxRate)
		}
		props[PropTooltip] = fmt.Sprintf("District: %s<br>Accidents per 100k (%d): %s", b.Name, year, shown)
	})
	stats.Features = len(boundaries)
	stats.log("rate")
	return fc, stats, nil
}

// TierMap joins each district's risk tier onto its boundary.
func TierMap(boundaries []Boundary, clusters *table.Table, file string) (*geojson.FeatureCollection, MapStats, error) {
	if err := clusters.Require(file, model.ColDistrictClean, model.ColRiskLevel); err != nil {
		return nil, MapStats{}, err
	}

	tiers := make(map[string]string, clusters.Len())
	for i := range clusters.Rows {
		key := clusters.Value(i, model.ColDistrictClean)
		if _, seen := tiers[key]; !seen {
			tiers[key] = clusters.Value(i, model.ColRiskLevel)
		}
	}

	var stats MapStats
	fc := newCollection(boundaries, func(b Boundary, props map[string]any) {
		props[model.ColDistrictClean] = b.Key
		label, ok := tiers[b.Key]
		stats.count(b.Key, ok)
		if label == "" {
			label = "No Data"
		}
		props[model.ColRiskLevel] = label
		props[PropFillColor] = TierColor(label)
		props[PropTooltip] = fmt.Sprintf("District: %s<br>AI Risk Level: %s", b.Name, label)
	})
	stats.Features = len(boundaries)
	stats.log("tier")
	return fc, stats, nil
}

// WriteGeoJSON writes fc to path atomically.
func WriteGeoJSON(path string, fc *geojson.FeatureCollection) error {
	return table.WriteAtomic(path, func(w io.Writer) error {
		if err := json.NewEncoder(w).Encode(fc); err != nil {
			return eris.Wrapf(err, "geo: encode %s", path)
		}
		return nil
	})
}

// newCollection builds one feature per boundary with a copy of its
// properties, a label point and the collection bounding box. decorate adds
// the map-specific properties.
func newCollection(boundaries []Boundary, decorate func(Boundary, map[string]any)) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(boundaries))}
	bbox := geom.NewBounds(geom.XY)

	for _, b := range boundaries {
		props := lo.Assign(b.Properties)
		if c, err := xy.Centroid(b.Geometry); err == nil {
			props[PropLabelPoint] = []float64{c.X(), c.Y()}
		}
		decorate(b, props)
		bbox.Extend(b.Geometry)
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   b.Geometry,
			Properties: props,
		})
	}

	if !bbox.IsEmpty() {
		fc.BBox = bbox
	}
	return fc
}

func (s *MapStats) count(key string, matched bool) {
	if matched {
		s.Matched++
		return
	}
	s.Unmatched = append(s.Unmatched, key)
}

func (s MapStats) log(kind string) {
	if len(s.Unmatched) == 0 {
		return
	}
	zap.L().With(zap.String("component", "geo.choropleth")).
		Warn("boundary districts without data",
			zap.String("map", kind),
			zap.Strings("districts", s.Unmatched))
}

func bounds(vals []float64) (float64, float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	return lo.Min(vals), lo.Max(vals)
}
