package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/akshita1420/maj-proj/internal/pipeline"
)

type stageFunc func(*pipeline.Runner, context.Context) (*pipeline.StageResult, error)

// stageCommand builds a subcommand that runs a single pipeline stage.
func stageCommand(use, short, long string, stage stageFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			r, err := pipeline.New(cfg, nil)
			if err != nil {
				return err
			}
			res, err := stage(r, ctx)
			if err != nil {
				return err
			}
			printStages(cmd.OutOrStdout(), res)
			printDetails(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func printStages(out io.Writer, stages ...*pipeline.StageResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STAGE\tSTATUS\tROWS\tWARNINGS\tDURATION\tOUTPUTS")
	_, _ = fmt.Fprintln(w, "-----\t------\t----\t--------\t--------\t-------")
	for _, s := range stages {
		outputs := "-"
		if len(s.Outputs) > 0 {
			outputs = fmt.Sprint(s.Outputs)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%dms\t%s\n",
			s.Name, s.Status, s.Rows, s.Warnings, s.DurationMS, outputs)
	}
	_ = w.Flush()
}

// printDetails adds a stage-specific summary below the stage table.
func printDetails(out io.Writer, res *pipeline.StageResult) {
	switch res.Name {
	case pipeline.StageTrend:
		if counts, ok := res.Details["categories"].(map[string]int); ok {
			printCounts(out, "Trend categories", counts)
		}
	case pipeline.StagePrioritize:
		if high, ok := res.Details["high_priority"].(int); ok {
			_, _ = fmt.Fprintf(out, "\n%d of %d districts are high priority\n", high, res.Rows)
		}
	}
}

// printCounts writes a sorted name/count listing.
func printCounts(out io.Writer, title string, counts map[string]int) {
	names := make([]string, 0, len(counts))
	for k := range counts {
		names = append(names, k)
	}
	sort.Strings(names)

	_, _ = fmt.Fprintf(out, "\n%s\n", title)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, n := range names {
		_, _ = fmt.Fprintf(w, "  %s\t%d\n", n, counts[n])
	}
	_ = w.Flush()
}
