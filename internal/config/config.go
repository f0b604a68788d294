package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/papapumpkin/makesnake/internal/pathtmpl"
)

// RunConfig holds the Snakemake invocation settings used by snakerun. The
// generator records them in the project manifest; snakerun may override them.
type RunConfig struct {
	Snakemake    string `mapstructure:"snakemake" toml:"snakemake"`
	Cores        int    `mapstructure:"cores" toml:"cores"`
	CondaPrefix  string `mapstructure:"conda_prefix" toml:"conda_prefix,omitempty"`
	Jobs         int    `mapstructure:"jobs" toml:"jobs"`
	LatencyWait  int    `mapstructure:"latency_wait" toml:"latency_wait"`
	RestartTimes int    `mapstructure:"restart_times" toml:"restart_times"`
	LogDir       string `mapstructure:"log_dir" toml:"log_dir"`
	Pager        string `mapstructure:"pager" toml:"pager"`
	Submit       string `mapstructure:"submit" toml:"submit"`
	Cancel       string `mapstructure:"cancel" toml:"cancel"`
	Status       string `mapstructure:"status" toml:"status"`
	Queue        string `mapstructure:"queue" toml:"queue"`
	MemoryMB     int    `mapstructure:"memory_mb" toml:"memory_mb"`
}

// Config holds all runtime configuration for a makesnake invocation.
// Values are populated from .makesnake.yaml, MAKESNAKE_* env vars, and CLI flags.
type Config struct {
	Tokens      pathtmpl.Tokens `mapstructure:"tokens"`
	TemplateDir string          `mapstructure:"template_dir"`
	OutputDir   string          `mapstructure:"output_dir"`
	Strict      bool            `mapstructure:"strict"`
	Verbose     bool            `mapstructure:"verbose"`
	Run         RunConfig       `mapstructure:"run"`
}

// DefaultRun returns the built-in Snakemake settings.
func DefaultRun() RunConfig {
	return RunConfig{
		Snakemake:    "snakemake",
		Cores:        1,
		Jobs:         100,
		LatencyWait:  180,
		RestartTimes: 3,
		LogDir:       "cluster_log",
		Pager:        "less -R",
		Submit:       "lsf_submit.sh",
		Cancel:       "lsf_cancel.sh",
		Status:       "lsf_status.sh",
		Queue:        "normal",
		MemoryMB:     4000,
	}
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	tokens := pathtmpl.DefaultTokens()
	viper.SetDefault("tokens.run_id", tokens.RunID)
	viper.SetDefault("tokens.results_root", tokens.ResultsRoot)
	viper.SetDefault("tokens.notebook_root", tokens.NotebookRoot)
	viper.SetDefault("tokens.script_dir", tokens.ScriptDir)
	viper.SetDefault("template_dir", "")
	viper.SetDefault("output_dir", ".")
	viper.SetDefault("strict", false)
	viper.SetDefault("verbose", false)
	SetRunDefaults(DefaultRun())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// SetRunDefaults registers base as the fallback for every run.* key.
func SetRunDefaults(base RunConfig) {
	viper.SetDefault("run.snakemake", base.Snakemake)
	viper.SetDefault("run.cores", base.Cores)
	viper.SetDefault("run.conda_prefix", base.CondaPrefix)
	viper.SetDefault("run.jobs", base.Jobs)
	viper.SetDefault("run.latency_wait", base.LatencyWait)
	viper.SetDefault("run.restart_times", base.RestartTimes)
	viper.SetDefault("run.log_dir", base.LogDir)
	viper.SetDefault("run.pager", base.Pager)
	viper.SetDefault("run.submit", base.Submit)
	viper.SetDefault("run.cancel", base.Cancel)
	viper.SetDefault("run.status", base.Status)
	viper.SetDefault("run.queue", base.Queue)
	viper.SetDefault("run.memory_mb", base.MemoryMB)
}

// LoadRun returns the run settings with base as defaults and any config
// file, environment or flag values layered on top.
func LoadRun(base RunConfig) (RunConfig, error) {
	SetRunDefaults(base)

	var wrapper struct {
		Run RunConfig `mapstructure:"run"`
	}
	if err := viper.Unmarshal(&wrapper); err != nil {
		return RunConfig{}, fmt.Errorf("unmarshaling run config: %w", err)
	}
	return wrapper.Run, nil
}
