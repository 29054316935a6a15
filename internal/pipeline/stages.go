package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/akshita1420/maj-proj/internal/geo"
	"github.com/akshita1420/maj-proj/internal/report"
	"github.com/akshita1420/maj-proj/internal/risk"
	"github.com/akshita1420/maj-proj/internal/table"
)

// Merge joins the accident table onto population and derives per-100k rates.
func (r *Runner) Merge(ctx context.Context) (*StageResult, error) {
	return r.track(ctx, StageMerge, func(ctx context.Context) (*StageResult, error) {
		popPath, accPath := r.cfg.Data.PopulationFile, r.cfg.Data.AccidentFile
		in, err := read(ctx, popPath, accPath)
		if err != nil {
			return nil, err
		}

		res, err := risk.Merge(in[0], in[1], risk.MergeOptions{
			Years:          r.cfg.Years,
			Aliases:        r.aliases,
			PopulationFile: popPath,
			AccidentFile:   accPath,
		})
		if err != nil {
			return nil, err
		}

		out := r.out(r.cfg.Output.Merged)
		if err := table.WriteCSV(out, res.Table); err != nil {
			return nil, err
		}

		r.metrics.AddWarnings("missing_population", res.Stats.MissingPopulation)
		r.metrics.AddWarnings("non_positive_population", res.Stats.NonPositivePopulation)
		r.metrics.AddWarnings("invalid_counts", res.Stats.InvalidCounts)
		r.metrics.AddWarnings("duplicate_population_keys", res.Stats.DuplicatePopulationKeys)

		return &StageResult{
			Rows:     res.Table.Len(),
			Warnings: res.Stats.Warnings(),
			Outputs:  []string{out},
			Details:  map[string]any{"stats": res.Stats},
		}, nil
	})
}

// Cluster assigns Low/Medium/High risk tiers from the latest year's rate.
func (r *Runner) Cluster(ctx context.Context) (*StageResult, error) {
	return r.track(ctx, StageCluster, func(ctx context.Context) (*StageResult, error) {
		mergedPath := r.out(r.cfg.Output.Merged)
		in, err := read(ctx, mergedPath)
		if err != nil {
			return nil, err
		}

		res, err := risk.Tier(in[0], risk.TierOptions{
			Year:      r.cfg.LatestYear(),
			Seed:      r.cfg.Cluster.Seed,
			NInit:     r.cfg.Cluster.NInit,
			MaxIter:   r.cfg.Cluster.MaxIter,
			Tolerance: r.cfg.Cluster.Tolerance,
			File:      mergedPath,
		})
		if err != nil {
			return nil, err
		}

		out := r.out(r.cfg.Output.Clusters)
		if err := table.WriteCSV(out, res.Table); err != nil {
			return nil, err
		}

		log := zap.L().With(zap.String("stage", StageCluster))
		for _, s := range res.Summary {
			log.Info("risk tier",
				zap.String("tier", s.Label),
				zap.Int("districts", s.Count),
				zap.Float64("mean_rate", s.Mean),
				zap.Float64("min_rate", s.Min),
				zap.Float64("max_rate", s.Max),
			)
		}

		var warnings int
		if res.Degenerate {
			warnings++
			r.metrics.AddWarnings("degenerate_clustering", 1)
		}
		return &StageResult{
			Rows:     len(res.Assignments),
			Warnings: warnings,
			Outputs:  []string{out},
			Details:  map[string]any{"tiers": res.Summary, "degenerate": res.Degenerate},
		}, nil
	})
}

// Trend classifies the change in rate between the first and last year.
func (r *Runner) Trend(ctx context.Context) (*StageResult, error) {
	return r.track(ctx, StageTrend, func(ctx context.Context) (*StageResult, error) {
		mergedPath := r.out(r.cfg.Output.Merged)
		in, err := read(ctx, mergedPath)
		if err != nil {
			return nil, err
		}

		res, err := risk.Trend(in[0], risk.TrendOptions{
			From:               r.cfg.EarliestYear(),
			To:                 r.cfg.LatestYear(),
			EmergingThreshold:  r.cfg.Trend.EmergingThreshold,
			ImprovingThreshold: r.cfg.Trend.ImprovingThreshold,
			File:               mergedPath,
		})
		if err != nil {
			return nil, err
		}

		out := r.out(r.cfg.Output.Temporal)
		if err := table.WriteCSV(out, res.Table); err != nil {
			return nil, err
		}
		return &StageResult{
			Rows:    res.Table.Len(),
			Outputs: []string{out},
			Details: map[string]any{"categories": res.Counts},
		}, nil
	})
}

// Explain attributes each district's risk to population or accident volume.
func (r *Runner) Explain(ctx context.Context) (*StageResult, error) {
	return r.track(ctx, StageExplain, func(ctx context.Context) (*StageResult, error) {
		mergedPath := r.out(r.cfg.Output.Merged)
		in, err := read(ctx, mergedPath)
		if err != nil {
			return nil, err
		}

		res, err := risk.Attribute(in[0], risk.AttributionOptions{Year: r.cfg.LatestYear(), File: mergedPath})
		if err != nil {
			return nil, err
		}

		out := r.out(r.cfg.Output.Explanation)
		if err := table.WriteCSV(out, res.Table); err != nil {
			return nil, err
		}

		r.metrics.AddWarnings("zero_variance", len(res.ZeroVariance))
		return &StageResult{
			Rows:     res.Table.Len(),
			Warnings: len(res.ZeroVariance),
			Outputs:  []string{out},
			Details:  map[string]any{"excluded": res.Excluded, "zero_variance": res.ZeroVariance},
		}, nil
	})
}

// Prioritize ranks districts by impact and marks the high-priority share.
func (r *Runner) Prioritize(ctx context.Context) (*StageResult, error) {
	return r.track(ctx, StagePrioritize, func(ctx context.Context) (*StageResult, error) {
		mergedPath, explPath := r.out(r.cfg.Output.Merged), r.out(r.cfg.Output.Explanation)
		in, err := read(ctx, mergedPath, explPath)
		if err != nil {
			return nil, err
		}

		res, err := risk.Prioritize(in[0], in[1], risk.PriorityOptions{
			Year:            r.cfg.LatestYear(),
			CoverageCutoff:  r.cfg.Priority.CoverageCutoff,
			MergedFile:      mergedPath,
			ExplanationFile: explPath,
		})
		if err != nil {
			return nil, err
		}

		out := r.out(r.cfg.Output.Priorities)
		if err := table.WriteCSV(out, res.Table); err != nil {
			return nil, err
		}
		return &StageResult{
			Rows:    res.Table.Len(),
			Outputs: []string{out},
			Details: map[string]any{"high_priority": res.High, "dropped": res.Dropped},
		}, nil
	})
}

// MapData exports the rate and tier choropleth GeoJSON.
func (r *Runner) MapData(ctx context.Context) (*StageResult, error) {
	return r.track(ctx, StageMapData, func(ctx context.Context) (*StageResult, error) {
		boundaryPath := r.cfg.Data.BoundaryFile
		mergedPath, clustersPath := r.out(r.cfg.Output.Merged), r.out(r.cfg.Output.Clusters)
		if err := table.CheckExists(boundaryPath, mergedPath, clustersPath); err != nil {
			return nil, err
		}

		boundaries, err := geo.Load(boundaryPath, r.aliases)
		if err != nil {
			return nil, err
		}
		in, err := read(ctx, mergedPath, clustersPath)
		if err != nil {
			return nil, err
		}

		rateMap, rateStats, err := geo.RateMap(boundaries, in[0], r.cfg.LatestYear(), mergedPath)
		if err != nil {
			return nil, err
		}
		tierMap, tierStats, err := geo.TierMap(boundaries, in[1], clustersPath)
		if err != nil {
			return nil, err
		}

		rateOut, tierOut := r.out(r.cfg.Output.RateMap), r.out(r.cfg.Output.ClusterMap)
		if err := geo.WriteGeoJSON(rateOut, rateMap); err != nil {
			return nil, err
		}
		if err := geo.WriteGeoJSON(tierOut, tierMap); err != nil {
			return nil, err
		}

		r.metrics.AddWarnings("unmatched_boundaries", len(rateStats.Unmatched))
		return &StageResult{
			Rows:     len(boundaries),
			Warnings: len(rateStats.Unmatched),
			Outputs:  []string{rateOut, tierOut},
			Details:  map[string]any{"rate_map": rateStats, "tier_map": tierStats},
		}, nil
	})
}

// Report bundles every stage output that exists into one workbook.
func (r *Runner) Report(ctx context.Context) (*StageResult, error) {
	return r.track(ctx, StageReport, func(ctx context.Context) (*StageResult, error) {
		out := r.out(r.cfg.Output.Report)
		res, err := report.WriteWorkbook(ctx, out, []report.Sheet{
			{Name: "merged", Path: r.out(r.cfg.Output.Merged)},
			{Name: "clusters", Path: r.out(r.cfg.Output.Clusters)},
			{Name: "temporal", Path: r.out(r.cfg.Output.Temporal)},
			{Name: "explanation", Path: r.out(r.cfg.Output.Explanation)},
			{Name: "priorities", Path: r.out(r.cfg.Output.Priorities)},
		})
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: report")
		}
		return &StageResult{
			Rows:     len(res.Sheets),
			Warnings: len(res.Skipped),
			Outputs:  []string{out},
			Details:  map[string]any{"sheets": res.Sheets, "skipped": res.Skipped},
		}, nil
	})
}
