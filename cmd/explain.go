package main

import "github.com/akshita1420/maj-proj/internal/pipeline"

var explainCmd = stageCommand("explain",
	"Attribute each district's risk to population exposure or accident intensity",
	`Standardizes population, accident volume and rate over districts where all
three are known, then splits each district's risk deviation into population
and accident-volume weights and names the dominant driver.`,
	(*pipeline.Runner).Explain,
)

func init() {
	rootCmd.AddCommand(explainCmd)
}
