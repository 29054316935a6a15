package main

import "github.com/akshita1420/maj-proj/internal/pipeline"

var trendCmd = stageCommand("trend",
	"Classify the change in risk between the first and last year",
	`Computes rate(last year) - rate(first year) per district and classifies it
as Emerging High Risk (> +20), Gradually Increasing Risk (> 0), Significantly
Improving (< -20) or Stable / Minor Change. Districts missing either rate are
Insufficient Data. Thresholds come from trend.* in config.yaml.`,
	(*pipeline.Runner).Trend,
)

func init() {
	rootCmd.AddCommand(trendCmd)
}
