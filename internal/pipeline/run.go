package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/akshita1420/maj-proj/internal/table"
)

// Manifest summarizes one full run.
type Manifest struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Years      []int          `json:"years"`
	Stages     []*StageResult `json:"stages"`
}

// Outputs lists every file written by the run's stages.
func (m *Manifest) Outputs() []string {
	var out []string
	for _, s := range m.Stages {
		out = append(out, s.Outputs...)
	}
	return out
}

// Warnings totals the data quality warnings of every stage.
func (m *Manifest) Warnings() int {
	var n int
	for _, s := range m.Stages {
		n += s.Warnings
	}
	return n
}

// Write stores the manifest as indented JSON.
func (m *Manifest) Write(path string) error {
	return table.WriteAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(m); err != nil {
			return eris.Wrap(err, "pipeline: encode manifest")
		}
		return nil
	})
}

// Run executes every stage in order and stops at the first failure. Map
// export is skipped when no boundary file is configured or present. The
// manifest and the metrics textfile are written only after every stage
// succeeds.
func (r *Runner) Run(ctx context.Context) (*Manifest, error) {
	m := &Manifest{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Years:     r.cfg.Years,
	}
	log := zap.L().With(zap.String("run_id", m.RunID))
	log.Info("pipeline: starting run", zap.Ints("years", r.cfg.Years))

	stages := []struct {
		name string
		fn   func(context.Context) (*StageResult, error)
	}{
		{StageMerge, r.Merge},
		{StageCluster, r.Cluster},
		{StageTrend, r.Trend},
		{StageExplain, r.Explain},
		{StagePrioritize, r.Prioritize},
		{StageMapData, r.MapData},
		{StageReport, r.Report},
	}

	for _, s := range stages {
		if s.name == StageMapData && !r.boundaryAvailable() {
			log.Info("pipeline: no boundary file, skipping map export",
				zap.String("path", r.cfg.Data.BoundaryFile))
			m.Stages = append(m.Stages, &StageResult{Name: s.name, Status: StatusSkipped})
			continue
		}

		res, err := s.fn(ctx)
		if res != nil {
			m.Stages = append(m.Stages, res)
		}
		if err != nil {
			return m, eris.Wrapf(err, "pipeline: run %s", s.name)
		}
	}

	m.FinishedAt = time.Now().UTC()
	if err := m.Write(r.out(r.cfg.Output.Manifest)); err != nil {
		return m, err
	}

	r.metrics.MarkSuccess(m.FinishedAt)
	if path := r.cfg.Metrics.Textfile; path != "" && r.metrics != nil {
		if err := r.metrics.WriteTextfile(path); err != nil {
			return m, err
		}
	}

	log.Info("pipeline: run complete",
		zap.Int("stages", len(m.Stages)),
		zap.Int("warnings", m.Warnings()),
		zap.Duration("elapsed", m.FinishedAt.Sub(m.StartedAt)),
	)
	return m, nil
}

func (r *Runner) boundaryAvailable() bool {
	if r.cfg.Data.BoundaryFile == "" {
		return false
	}
	return table.CheckExists(r.cfg.Data.BoundaryFile) == nil
}
