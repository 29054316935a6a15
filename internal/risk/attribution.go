package risk

import (
	"math"
	"slices"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/akshita1420/maj-proj/internal/model"
	"github.com/akshita1420/maj-proj/internal/table"
)

// AttributionOptions configures Attribute.
type AttributionOptions struct {
	Year int
	File string
}

// AttributionResult holds one record per fully-defined district.
type AttributionResult struct {
	Table        *table.Table
	Records      []model.AttributionRecord
	Excluded     int      // rows dropped for an undefined input
	ZeroVariance []string // columns whose z-scores were forced to 0
}

// Attribute standardizes population, accident volume and rate over the
// districts where all three are defined, then splits each district's risk
// deviation between population exposure and accident intensity.
//
// Policies for undefined divisions: a column with zero or undefined sample
// deviation standardizes to 0, and a district whose two contributions are
// both 0 gets a 0.5/0.5 split (dominant driver Accident Intensity).
func Attribute(merged *table.Table, opts AttributionOptions) (*AttributionResult, error) {
	accCol, rateCol := model.AccidentColumn(opts.Year), model.RateColumn(opts.Year)
	if err := merged.Require(opts.File, model.ColDistrict, model.ColPopulation, accCol, rateCol); err != nil {
		return nil, err
	}

	log := zap.L().With(zap.String("component", "risk.attribution"))

	pops := floatColumn(merged, model.ColPopulation)
	accs := floatColumn(merged, accCol)
	rates := floatColumn(merged, rateCol)

	res := &AttributionResult{}
	var rows []int
	var p, a, r []float64
	for i := range pops {
		if !pops[i].Valid || !accs[i].Valid || !rates[i].Valid {
			res.Excluded++
			continue
		}
		rows = append(rows, i)
		p = append(p, pops[i].V)
		a = append(a, accs[i].V)
		r = append(r, rates[i].V)
	}
	if res.Excluded > 0 {
		log.Info("excluding districts with undefined inputs from attribution", zap.Int("rows", res.Excluded))
	}

	zp, okP := zscores(p)
	za, okA := zscores(a)
	zr, okR := zscores(r)
	for col, ok := range map[string]bool{model.ColPopulation: okP, accCol: okA, rateCol: okR} {
		if !ok {
			res.ZeroVariance = append(res.ZeroVariance, col)
		}
	}
	slices.Sort(res.ZeroVariance)
	if len(res.ZeroVariance) > 0 && len(rows) > 0 {
		log.Warn("zero variance in attribution inputs; z-scores set to 0", zap.Strings("columns", res.ZeroVariance))
	}

	hasKey := merged.Has(model.ColDistrictClean)
	header := []string{model.ColDistrict}
	if hasKey {
		header = append(header, model.ColDistrictClean)
	}
	header = append(header,
		model.ColPopulation, accCol, rateCol,
		model.ColZPopulation, model.ColZAccidents, model.ColZRisk,
		model.ColPopulationContribution, model.ColAccidentVolumeContribution,
		model.ColPopulationWeight, model.ColAccidentVolumeWeight,
		model.ColDominantDriver,
	)

	cells := make([][]string, 0, len(rows))
	for j, row := range rows {
		rec := attribute(zp[j], za[j], zr[j])
		rec.Name = merged.Value(row, model.ColDistrict)
		rec.Key = merged.Value(row, model.ColDistrictClean)
		rec.Population, rec.Accidents, rec.Rate = p[j], a[j], r[j]
		res.Records = append(res.Records, rec)

		line := []string{rec.Name}
		if hasKey {
			line = append(line, rec.Key)
		}
		line = append(line,
			formatFloat(rec.Population), formatFloat(rec.Accidents), formatFloat(rec.Rate),
			formatFloat(rec.ZPopulation), formatFloat(rec.ZAccidents), formatFloat(rec.ZRisk),
			formatFloat(rec.PopulationContribution), formatFloat(rec.AccidentVolumeContribution),
			formatFloat(rec.PopulationWeight), formatFloat(rec.AccidentVolumeWeight),
			rec.DominantDriver,
		)
		cells = append(cells, line)
	}

	res.Table = table.New(header, cells)
	return res, nil
}

// attribute derives contributions, weights and the dominant driver from
// standardized signals.
func attribute(zPop, zAcc, zRisk float64) model.AttributionRecord {
	rec := model.AttributionRecord{
		ZPopulation:                zPop,
		ZAccidents:                 zAcc,
		ZRisk:                      zRisk,
		PopulationContribution:     math.Abs(zPop * zRisk),
		AccidentVolumeContribution: math.Abs(zAcc * zRisk),
	}

	total := rec.PopulationContribution + rec.AccidentVolumeContribution
	if total > 0 {
		rec.PopulationWeight = rec.PopulationContribution / total
		rec.AccidentVolumeWeight = rec.AccidentVolumeContribution / total
	} else {
		rec.PopulationWeight, rec.AccidentVolumeWeight = 0.5, 0.5
	}

	// Strict comparison: ties go to accident intensity.
	if rec.PopulationWeight > rec.AccidentVolumeWeight {
		rec.DominantDriver = model.DriverPopulation
	} else {
		rec.DominantDriver = model.DriverAccidents
	}
	return rec
}

// zscores standardizes vals with the global mean and sample standard
// deviation. It returns all zeros and false when the deviation is zero or
// undefined (fewer than two values).
func zscores(vals []float64) ([]float64, bool) {
	out := make([]float64, len(vals))
	if len(vals) < 2 {
		return out, false
	}
	mean, std := stat.MeanStdDev(vals, nil)
	if std == 0 || math.IsNaN(std) {
		return out, false
	}
	for i, v := range vals {
		out[i] = (v - mean) / std
	}
	return out, true
}
