package main

import "github.com/akshita1420/maj-proj/internal/pipeline"

var mergeCmd = stageCommand("merge",
	"Merge population and accident tables and derive per-100k rates",
	`Reconciles district names (trim, lowercase, alias table), left-joins the
accident table onto population and writes accidents_per_100k_<year> for every
configured year. Rows without a population match are kept with empty rates.`,
	(*pipeline.Runner).Merge,
)

func init() {
	rootCmd.AddCommand(mergeCmd)
}
