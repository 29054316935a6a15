package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/akshita1420/maj-proj/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "roadrisk",
	Short: "District road-accident risk analytics",
	Long: `Merges district population with yearly accident counts, tiers districts by
accidents per 100k population, classifies temporal trends, attributes risk to
population exposure or accident intensity, and ranks districts for
intervention. Each stage reads and writes flat files under the output dir.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		applyPathFlags(cmd, cfg)
		return cfg.Validate()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("population", "", "population table, CSV or XLSX (overrides data.population_file)")
	f.String("accidents", "", "accident table, CSV or XLSX (overrides data.accident_file)")
	f.String("boundaries", "", "district boundaries, GeoJSON or .shp (overrides data.boundary_file)")
	f.String("aliases", "", "YAML alias override file (overrides data.alias_file)")
	f.String("output-dir", "", "directory for stage outputs (overrides output.dir)")
	f.String("metrics-textfile", "", "write Prometheus metrics here after a full run (overrides metrics.textfile)")
}

// applyPathFlags copies explicitly set path flags over the loaded config.
func applyPathFlags(cmd *cobra.Command, c *config.Config) {
	for name, dst := range map[string]*string{
		"population":       &c.Data.PopulationFile,
		"accidents":        &c.Data.AccidentFile,
		"boundaries":       &c.Data.BoundaryFile,
		"aliases":          &c.Data.AliasFile,
		"output-dir":       &c.Output.Dir,
		"metrics-textfile": &c.Metrics.Textfile,
	} {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		zap.L().Error("roadrisk failed", zap.Error(err))
		os.Exit(1)
	}
}
