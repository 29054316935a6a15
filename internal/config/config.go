package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data     DataConfig        `yaml:"data" mapstructure:"data"`
	Output   OutputConfig      `yaml:"output" mapstructure:"output"`
	Years    []int             `yaml:"years" mapstructure:"years"`
	Aliases  map[string]string `yaml:"aliases" mapstructure:"aliases"`
	Cluster  ClusterConfig     `yaml:"cluster" mapstructure:"cluster"`
	Trend    TrendConfig       `yaml:"trend" mapstructure:"trend"`
	Priority PriorityConfig    `yaml:"priority" mapstructure:"priority"`
	Metrics  MetricsConfig     `yaml:"metrics" mapstructure:"metrics"`
	Log      LogConfig         `yaml:"log" mapstructure:"log"`
}

// DataConfig points at the source tables.
type DataConfig struct {
	PopulationFile string `yaml:"population_file" mapstructure:"population_file"`
	AccidentFile   string `yaml:"accident_file" mapstructure:"accident_file"`
	BoundaryFile   string `yaml:"boundary_file" mapstructure:"boundary_file"`
	AliasFile      string `yaml:"alias_file" mapstructure:"alias_file"`
}

// OutputConfig names the files each stage writes, relative to Dir.
type OutputConfig struct {
	Dir         string `yaml:"dir" mapstructure:"dir"`
	Merged      string `yaml:"merged" mapstructure:"merged"`
	Clusters    string `yaml:"clusters" mapstructure:"clusters"`
	Temporal    string `yaml:"temporal" mapstructure:"temporal"`
	Explanation string `yaml:"explanation" mapstructure:"explanation"`
	Priorities  string `yaml:"priorities" mapstructure:"priorities"`
	RateMap     string `yaml:"rate_map" mapstructure:"rate_map"`
	ClusterMap  string `yaml:"cluster_map" mapstructure:"cluster_map"`
	Report      string `yaml:"report" mapstructure:"report"`
	Manifest    string `yaml:"manifest" mapstructure:"manifest"`
}

// ClusterConfig tunes the k-means risk tiering.
type ClusterConfig struct {
	Seed      uint64  `yaml:"seed" mapstructure:"seed"`
	NInit     int     `yaml:"n_init" mapstructure:"n_init"`
	MaxIter   int     `yaml:"max_iter" mapstructure:"max_iter"`
	Tolerance float64 `yaml:"tolerance" mapstructure:"tolerance"`
}

// TrendConfig holds the absolute rate-per-100k delta thresholds.
type TrendConfig struct {
	EmergingThreshold  float64 `yaml:"emerging_threshold" mapstructure:"emerging_threshold"`
	ImprovingThreshold float64 `yaml:"improving_threshold" mapstructure:"improving_threshold"`
}

// PriorityConfig configures the cumulative-coverage cut.
type PriorityConfig struct {
	CoverageCutoff float64 `yaml:"coverage_cutoff" mapstructure:"coverage_cutoff"`
}

// MetricsConfig configures the Prometheus textfile written after a run.
type MetricsConfig struct {
	Textfile string `yaml:"textfile" mapstructure:"textfile"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultAliases maps legacy accident-table district names to the names used
// by the population table.
func DefaultAliases() map[string]string {
	return map[string]string{
		"chennai city": "chennai",
		"chengalpattu": "kancheepuram",
	}
}

// keyDelim separates nested config keys. Alias names may contain dots
// ("st. thomas mount"), so viper's default "." cannot be used.
const keyDelim = "::"

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelim))

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ROADRISK")
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelim, "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data::population_file", "data/tamil_nadu_district_demographics.csv")
	v.SetDefault("data::accident_file", "data/accidents.csv")
	v.SetDefault("data::boundary_file", "data/tamil-nadu.geojson")
	v.SetDefault("data::alias_file", "")
	v.SetDefault("output::dir", "output")
	v.SetDefault("output::merged", "tn_urban_risk_dataset.csv")
	v.SetDefault("output::clusters", "tn_urban_risk_with_clusters.csv")
	v.SetDefault("output::temporal", "tn_temporal_risk_intelligence.csv")
	v.SetDefault("output::explanation", "tn_risk_explanation.csv")
	v.SetDefault("output::priorities", "tn_decision_support_priorities.csv")
	v.SetDefault("output::rate_map", "tamil_nadu_accident_risk_map.geojson")
	v.SetDefault("output::cluster_map", "tamil_nadu_ai_risk_clusters.geojson")
	v.SetDefault("output::report", "tn_risk_report.xlsx")
	v.SetDefault("output::manifest", "run_manifest.json")
	v.SetDefault("years", []int{2021, 2022, 2023})
	v.SetDefault("aliases", DefaultAliases())
	v.SetDefault("cluster::seed", 42)
	v.SetDefault("cluster::n_init", 10)
	v.SetDefault("cluster::max_iter", 300)
	v.SetDefault("cluster::tolerance", 1e-4)
	v.SetDefault("trend::emerging_threshold", 20.0)
	v.SetDefault("trend::improving_threshold", -20.0)
	v.SetDefault("priority::coverage_cutoff", 0.6)
	v.SetDefault("metrics::textfile", "")
	v.SetDefault("log::level", "info")
	v.SetDefault("log::format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the analytic settings and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if len(c.Years) < 2 {
		errs = append(errs, "years must list at least two years")
	}
	for i := 1; i < len(c.Years); i++ {
		if c.Years[i] <= c.Years[i-1] {
			errs = append(errs, "years must be strictly increasing")
			break
		}
	}

	if c.Output.Dir == "" {
		errs = append(errs, "output.dir is required")
	}
	if c.Cluster.NInit < 1 {
		errs = append(errs, "cluster.n_init must be >= 1")
	}
	if c.Cluster.MaxIter < 1 {
		errs = append(errs, "cluster.max_iter must be >= 1")
	}
	if c.Cluster.Tolerance < 0 {
		errs = append(errs, "cluster.tolerance must be >= 0")
	}
	if c.Trend.EmergingThreshold < 0 {
		errs = append(errs, "trend.emerging_threshold must be >= 0")
	}
	if c.Trend.ImprovingThreshold > 0 {
		errs = append(errs, "trend.improving_threshold must be <= 0")
	}
	if c.Priority.CoverageCutoff <= 0 || c.Priority.CoverageCutoff > 1 {
		errs = append(errs, fmt.Sprintf("priority.coverage_cutoff must be in (0, 1], got %g", c.Priority.CoverageCutoff))
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// EarliestYear returns the first configured year.
func (c *Config) EarliestYear() int { return c.Years[0] }

// LatestYear returns the last configured year.
func (c *Config) LatestYear() int { return c.Years[len(c.Years)-1] }

// OutputPath joins name onto the output directory.
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.Output.Dir, name)
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
