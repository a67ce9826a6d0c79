package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/proposalcheck/internal/proposal"
)

const (
	configPathEnv  = "PROPOSALCHECK_CONFIG"
	formatEnv      = "PROPOSALCHECK_FORMAT"
	logLevelEnv    = "PROPOSALCHECK_LOG_LEVEL"
	databaseDSNEnv = "PROPOSALCHECK_DATABASE_DSN"

	defaultTable = "analysis_runs"
)

// Config holds the settings shared by every command.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
	Analysis AnalysisConfig `yaml:"analysis"`
	History  HistoryConfig  `yaml:"history"`
}

// OutputConfig controls report rendering and exit status.
type OutputConfig struct {
	Format string `yaml:"format"`
	// Fail makes a failed analysis exit with status 2.
	Fail bool `yaml:"fail"`
}

// LogConfig sets the stderr log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// AnalysisConfig supplies defaults for the analysis input.
type AnalysisConfig struct {
	Stage            string   `yaml:"stage"`
	RequiredKeywords []string `yaml:"requiredKeywords"`
}

// HistoryConfig describes the Postgres run history. An empty DSN disables it.
type HistoryConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

// Enabled reports whether run history is configured.
func (h HistoryConfig) Enabled() bool {
	return h.DSN != ""
}

// Load builds the configuration from defaults, the YAML file at path (or the
// file named by PROPOSALCHECK_CONFIG when path is empty), and environment
// overrides, in that order.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Output.Format {
	case "json", "result", "md", "text":
	default:
		return fmt.Errorf("output format must be json, result, md, or text, got %q", c.Output.Format)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(formatEnv); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.History.DSN = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Output.Format != "" {
		base.Output.Format = override.Output.Format
	}
	if override.Output.Fail {
		base.Output.Fail = true
	}

	if override.Log.Level != "" {
		base.Log.Level = override.Log.Level
	}

	if override.Analysis.Stage != "" {
		base.Analysis.Stage = override.Analysis.Stage
	}
	if len(override.Analysis.RequiredKeywords) > 0 {
		base.Analysis.RequiredKeywords = override.Analysis.RequiredKeywords
	}

	if override.History.DSN != "" {
		base.History.DSN = override.History.DSN
	}
	if override.History.Table != "" {
		base.History.Table = override.History.Table
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Output:   OutputConfig{Format: "json"},
		Log:      LogConfig{Level: "info"},
		Analysis: AnalysisConfig{Stage: string(proposal.StageEarly)},
		History:  HistoryConfig{Table: defaultTable},
	}
}
