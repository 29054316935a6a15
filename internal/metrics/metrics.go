// Package metrics exposes batch-run observability as a Prometheus textfile
// for node_exporter's textfile collector.
package metrics

import (
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rotisserie/eris"
)

// Metrics holds the pipeline metrics on a private registry.
type Metrics struct {
	reg *prometheus.Registry

	// Wall time of the last execution of each stage
	StageDuration *prometheus.GaugeVec

	// Rows written by each stage
	StageRows *prometheus.GaugeVec

	// Non-fatal data quality issues by kind
	Warnings *prometheus.CounterVec

	LastSuccess prometheus.Gauge
}

// New creates a Metrics instance with every pipeline metric registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,

		StageDuration: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "roadrisk_stage_duration_seconds",
			Help: "Duration of the last execution of a pipeline stage",
		}, []string{"stage"}),

		StageRows: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "roadrisk_stage_rows",
			Help: "Rows written by the last execution of a pipeline stage",
		}, []string{"stage"}),

		Warnings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "roadrisk_data_quality_warnings_total",
			Help: "Non-fatal data quality issues found while processing inputs",
		}, []string{"kind"}),

		LastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Name: "roadrisk_last_success_timestamp_seconds",
			Help: "Unix time of the last run that completed every stage",
		}),
	}
}

// ObserveStage records a finished stage.
func (m *Metrics) ObserveStage(stage string, d time.Duration, rows int) {
	if m != nil {
		m.StageDuration.WithLabelValues(stage).Set(d.Seconds())
		m.StageRows.WithLabelValues(stage).Set(float64(rows))
	}
}

// AddWarnings counts n data quality issues of one kind. Zero is a no-op.
func (m *Metrics) AddWarnings(kind string, n int) {
	if m != nil && n > 0 {
		m.Warnings.WithLabelValues(kind).Add(float64(n))
	}
}

// MarkSuccess stamps the completion time of a full run.
func (m *Metrics) MarkSuccess(t time.Time) {
	if m != nil {
		m.LastSuccess.Set(float64(t.Unix()))
	}
}

// Gatherer returns the registry backing m.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.reg }

// WriteTextfile writes every metric to path in the text exposition format.
// The write goes through a temp file and rename.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "metrics: create dir for %s", path)
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return eris.Wrapf(err, "metrics: write %s", path)
	}
	return nil
}
