package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/akshita1420/maj-proj/internal/metrics"
	"github.com/akshita1420/maj-proj/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every stage in order",
	Long: `Runs merge, cluster, trend, explain, prioritize, mapdata and report in
order, stopping at the first failure. Map export is skipped when no boundary
file is available. A run manifest is written to the output dir, and a
Prometheus textfile when metrics.textfile is set.

Examples:
  roadrisk run
  roadrisk run --population data/pop.xlsx --accidents data/acc.csv --output-dir out`,
	Args: cobra.NoArgs,
	RunE: runAll,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runAll(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r, err := pipeline.New(cfg, metrics.New())
	if err != nil {
		return err
	}
	m, err := r.Run(ctx)
	if m != nil {
		printStages(cmd.OutOrStdout(), m.Stages...)
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nrun %s complete: %d outputs, %d warnings\n",
		m.RunID, len(m.Outputs()), m.Warnings())
	return nil
}
