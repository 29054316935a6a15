package main

import "github.com/akshita1420/maj-proj/internal/pipeline"

var prioritizeCmd = stageCommand("prioritize",
	"Rank districts by impact and mark high-priority intervention zones",
	`Scores each district as rate x dominant weight, ranks by descending score and
marks the districts covering the first priority.coverage_cutoff share of
cumulative impact as High Priority Intervention Zones. Requires the outputs
of merge and explain.`,
	(*pipeline.Runner).Prioritize,
)

func init() {
	rootCmd.AddCommand(prioritizeCmd)
}
