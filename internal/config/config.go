// Package config defines evaluator configuration and its loading layers.
//
// Conventions:
// - New returns defaults; Load layers file and environment on top.
// - Command-line flags are applied by the caller after Load.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"math"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// ResultsDir holds one predicted observation per file.
	ResultsDir string `koanf:"results_dir"`
	// LabelsDir holds one ground-truth observation per file.
	LabelsDir string `koanf:"labels_dir"`

	// Pairing is "key" (match by file stem) or "order" (match by position).
	Pairing string `koanf:"pairing"`

	// Delta is how many frames early a prediction may be and still count.
	Delta int `koanf:"delta"`
	// MaxDelay is the mean delay, in frames, at which the delay score hits 0.
	MaxDelay float64 `koanf:"max_delay"`
	// PFRTarget is the processing frame rate with no penalty.
	PFRTarget float64 `koanf:"pfr_target"`
	// MemTarget is the memory usage with no penalty.
	MemTarget float64 `koanf:"mem_target"`

	// Resource measurements of the detector run.
	TotalFrames    float64 `koanf:"total_frames"`
	ProcessingTime float64 `koanf:"processing_time"`
	MemoryUsage    float64 `koanf:"memory_usage"`

	// Format of the report on stdout: text or json.
	Format string `koanf:"format"`
	// Verbose adds the per-sample verdict table to text reports.
	Verbose bool `koanf:"verbose"`

	// MetricsFile, when set, receives a Prometheus textfile of the run.
	MetricsFile      string `koanf:"metrics_file"`
	MetricsNamespace string `koanf:"metrics_namespace"`
	// ModelName labels exported metrics.
	ModelName string `koanf:"model_name"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		ResultsDir:       "results",
		LabelsDir:        "labels",
		Pairing:          "key",
		Delta:            5,
		MaxDelay:         60,
		PFRTarget:        10,
		MemTarget:        4,
		MemoryUsage:      1,
		Format:           "text",
		MetricsNamespace: "fds",
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.ResultsDir) == "" {
		problems = append(problems, "results_dir must not be empty")
	}
	if strings.TrimSpace(c.LabelsDir) == "" {
		problems = append(problems, "labels_dir must not be empty")
	}
	if c.Delta < 0 {
		problems = append(problems, "delta must not be negative")
	}
	if c.MaxDelay <= 0 {
		problems = append(problems, "max_delay must be positive")
	}
	if c.PFRTarget <= 0 {
		problems = append(problems, "pfr_target must be positive")
	}
	if c.MemTarget <= 0 {
		problems = append(problems, "mem_target must be positive")
	}
	for _, v := range []float64{c.TotalFrames, c.ProcessingTime, c.MemoryUsage} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			problems = append(problems, "resource measurements must be finite and not negative")
			break
		}
	}
	for _, v := range []float64{c.MaxDelay, c.PFRTarget, c.MemTarget} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			problems = append(problems, "targets must be finite")
			break
		}
	}
	switch strings.ToLower(c.Pairing) {
	case "key", "order":
	default:
		problems = append(problems, fmt.Sprintf("unknown pairing %q", c.Pairing))
	}
	switch strings.ToLower(c.Format) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("unknown format %q", c.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
