// Package pipeline runs the risk analytics stages against files on disk.
// Disk is the only channel between stages: each stage reads its inputs,
// validates them, computes, and writes its outputs atomically.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/akshita1420/maj-proj/internal/config"
	"github.com/akshita1420/maj-proj/internal/district"
	"github.com/akshita1420/maj-proj/internal/metrics"
	"github.com/akshita1420/maj-proj/internal/table"
)

// Stage names, in execution order.
const (
	StageMerge      = "merge"
	StageCluster    = "cluster"
	StageTrend      = "trend"
	StageExplain    = "explain"
	StagePrioritize = "prioritize"
	StageMapData    = "mapdata"
	StageReport     = "report"
)

// StageStatus is the outcome of one stage.
type StageStatus string

// Stage outcomes.
const (
	StatusComplete StageStatus = "complete"
	StatusSkipped  StageStatus = "skipped"
	StatusFailed   StageStatus = "failed"
)

// StageResult records what a stage did.
type StageResult struct {
	Name       string         `json:"name"`
	Status     StageStatus    `json:"status"`
	Rows       int            `json:"rows"`
	Warnings   int            `json:"warnings"`
	Outputs    []string       `json:"outputs,omitempty"`
	DurationMS int64          `json:"duration_ms"`
	Details    map[string]any `json:"details,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Runner executes stages with one configuration.
type Runner struct {
	cfg     *config.Config
	aliases *district.AliasTable
	metrics *metrics.Metrics
}

// New builds a Runner. The alias table comes from the configured aliases
// with the optional alias file layered on top. m may be nil.
func New(cfg *config.Config, m *metrics.Metrics) (*Runner, error) {
	aliases, err := district.Build(cfg.Aliases, cfg.Data.AliasFile)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: build alias table")
	}
	return &Runner{cfg: cfg, aliases: aliases, metrics: m}, nil
}

// track times fn, logs its outcome and feeds the stage metrics.
func (r *Runner) track(ctx context.Context, name string, fn func(ctx context.Context) (*StageResult, error)) (*StageResult, error) {
	log := zap.L().With(zap.String("stage", name))
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrapf(err, "pipeline: %s cancelled", name)
	}

	start := time.Now()
	res, err := fn(ctx)
	if res == nil {
		res = &StageResult{}
	}
	elapsed := time.Since(start)
	res.Name = name
	res.DurationMS = elapsed.Milliseconds()

	if err != nil {
		res.Status = StatusFailed
		res.Error = err.Error()
		log.Error("pipeline: stage failed", zap.Int64("duration_ms", res.DurationMS), zap.Error(err))
		return res, err
	}
	if res.Status == "" {
		res.Status = StatusComplete
	}
	if res.Status == StatusComplete {
		r.metrics.ObserveStage(name, elapsed, res.Rows)
	}
	log.Info("pipeline: stage "+string(res.Status),
		zap.Int("rows", res.Rows),
		zap.Int("warnings", res.Warnings),
		zap.Strings("outputs", res.Outputs),
		zap.Int64("duration_ms", res.DurationMS),
	)
	return res, nil
}

// read checks that every path exists before loading any of them, so a
// missing input fails the stage before work starts.
func read(ctx context.Context, paths ...string) ([]*table.Table, error) {
	if err := table.CheckExists(paths...); err != nil {
		return nil, err
	}
	out := make([]*table.Table, 0, len(paths))
	for _, p := range paths {
		t, err := table.ReadFile(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *Runner) out(name string) string { return r.cfg.OutputPath(name) }
