package main

import "github.com/akshita1420/maj-proj/internal/pipeline"

var reportCmd = stageCommand("report",
	"Bundle the stage outputs into one XLSX workbook",
	`Writes one sheet per stage output found in the output dir. Missing outputs
are skipped with a warning.`,
	(*pipeline.Runner).Report,
)

func init() {
	rootCmd.AddCommand(reportCmd)
}
