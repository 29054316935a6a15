// Package geo loads district boundaries and exports the choropleth-ready
// GeoJSON consumed by the risk map renderers.
package geo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/akshita1420/maj-proj/internal/district"
	"github.com/akshita1420/maj-proj/internal/table"
)

// Boundary is one district polygon with its reconciled join key.
type Boundary struct {
	Name       string // display name from the source, "Unknown" when absent
	Key        string
	Geometry   geom.T
	Properties map[string]any
}

// nameFields are the attribute names holding the district name, in order.
var nameFields = []string{"district", "DISTRICT"}

// Load reads boundaries from a GeoJSON FeatureCollection or an ESRI
// shapefile, chosen by extension.
func Load(path string, aliases *district.AliasTable) ([]Boundary, error) {
	if err := table.CheckExists(path); err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".shp") {
		return LoadShapefile(path, aliases)
	}
	return LoadGeoJSON(path, aliases)
}

// LoadGeoJSON reads a FeatureCollection. Features without geometry are
// skipped.
func LoadGeoJSON(path string, aliases *district.AliasTable) ([]Boundary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geo: read %s", path)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "geo: decode %s", path)
	}

	log := zap.L().With(zap.String("component", "geo.loader"))
	out := make([]Boundary, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f.Geometry == nil {
			log.Debug("skipping feature without geometry", zap.Int("feature", i))
			continue
		}
		props := f.Properties
		if props == nil {
			props = map[string]any{}
		}
		name := displayName(props)
		out = append(out, Boundary{
			Name:       name,
			Key:        boundaryKey(name, aliases),
			Geometry:   f.Geometry,
			Properties: props,
		})
	}

	log.Debug("boundaries loaded", zap.String("path", path), zap.Int("features", len(out)))
	return out, nil
}

// LoadShapefile reads polygons and the district attribute from a .shp and
// its sibling .dbf. The reader is closed before returning.
func LoadShapefile(path string, aliases *district.AliasTable) ([]Boundary, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geo: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	nameIdx := -1
	for _, f := range nameFields {
		if nameIdx = fieldIndex(reader, f); nameIdx >= 0 {
			break
		}
	}
	if nameIdx < 0 {
		return nil, eris.Errorf("geo: shapefile %s has no district field", path)
	}

	var out []Boundary
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		mp := polygonToMultiPolygon(poly)
		if mp == nil {
			skipped++
			continue
		}

		name := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		out = append(out, Boundary{
			Name:       name,
			Key:        boundaryKey(name, aliases),
			Geometry:   mp,
			Properties: map[string]any{nameFields[0]: name},
		})
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrapf(err, "geo: read shapefile %s", path)
	}

	if skipped > 0 {
		zap.L().Debug("geo: skipped non-polygon shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	return out, nil
}

func displayName(props map[string]any) string {
	for _, f := range nameFields {
		if v, ok := props[f].(string); ok {
			return v
		}
	}
	return "Unknown"
}

// boundaryKey strips the " district" suffix boundary files carry, then
// applies the alias table.
func boundaryKey(name string, aliases *district.AliasTable) string {
	return aliases.Resolve(district.NormalizeBoundary(name))
}

// fieldIndex returns the index of a named field in the shapefile, or -1 if not found.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon,
// one polygon per part.
func polygonToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		flat := make([]float64, 0, 2*(end-start))
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flat)); err != nil {
			zap.L().Debug("geo: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("geo: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
