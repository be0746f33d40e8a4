// Package config handles execution configuration for taskweave.
// It supports YAML config files, TASKWEAVE_* environment variables, and
// built-in defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Mode selects the workflow execution strategy.
type Mode string

const (
	// ModeSequential dispatches ready tasks one at a time.
	ModeSequential Mode = "sequential"
	// ModeParallel fans each readiness snapshot out over a bounded
	// worker pool, joining before readiness is recomputed.
	ModeParallel Mode = "parallel"
	// ModeHybrid is reserved for a future grouping optimization and
	// currently behaves like sequential.
	ModeHybrid Mode = "hybrid"
)

// Valid returns true if the mode is a known value.
func (m Mode) Valid() bool {
	switch m {
	case ModeSequential, ModeParallel, ModeHybrid:
		return true
	default:
		return false
	}
}

// Config holds execution strategy selection and limits for an
// orchestrator instance. It is supplied once at construction and is
// immutable for the lifetime of that instance.
type Config struct {
	// Mode is the execution strategy.
	Mode Mode `mapstructure:"mode" validate:"oneof=sequential parallel hybrid"`
	// MaxRetries bounds how many times a failed task may be retried.
	MaxRetries int `mapstructure:"max_retries" validate:"gte=0"`
	// TaskTimeout bounds the context deadline handed to each action
	// handler. Zero disables the deadline.
	TaskTimeout time.Duration `mapstructure:"task_timeout"`
	// MaxWorkers bounds concurrent task execution in parallel mode.
	MaxWorkers int `mapstructure:"max_workers" validate:"gte=1"`
	// EnableReview routes task output through the reviewer collaborator.
	EnableReview bool `mapstructure:"enable_review"`
	// EnableSummaries routes long task output through the summarizer.
	EnableSummaries bool `mapstructure:"enable_summaries"`
	// AutoApproveScore is the quality score at or above which reviewed
	// output is auto-approved.
	AutoApproveScore float64 `mapstructure:"auto_approve_score" validate:"gte=0,lte=1"`
	// LogExecution enables per-task execution logging.
	LogExecution bool `mapstructure:"log_execution"`
}

// Default returns the built-in default configuration.
func Default() Config {
	return Config{
		Mode:             ModeSequential,
		MaxRetries:       3,
		TaskTimeout:      5 * time.Minute,
		MaxWorkers:       4,
		EnableReview:     true,
		EnableSummaries:  true,
		AutoApproveScore: 0.8,
		LogExecution:     true,
	}
}

// Validate checks the configuration against its struct constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("mode", string(d.Mode))
	v.SetDefault("max_retries", d.MaxRetries)
	v.SetDefault("task_timeout", d.TaskTimeout)
	v.SetDefault("max_workers", d.MaxWorkers)
	v.SetDefault("enable_review", d.EnableReview)
	v.SetDefault("enable_summaries", d.EnableSummaries)
	v.SetDefault("auto_approve_score", d.AutoApproveScore)
	v.SetDefault("log_execution", d.LogExecution)
}

// Load loads configuration with the following precedence (highest first):
// TASKWEAVE_* environment variables, the config file at path (optional,
// empty path skips the file), built-in defaults.
func Load(path string) (Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config from %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("TASKWEAVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
