// Package testevents generates synthetic results/labels directories with a
// known confusion matrix, for smoke-testing the evaluator.
package testevents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/okian/fds/internal/domain/detection"
	"github.com/okian/fds/pkg/logger"
)

// ErrInvalidConfig indicates generation parameters out of range.
var ErrInvalidConfig = errors.New("invalid generator config")

func (c Config) validate() error {
	switch {
	case c.Dir == "":
		return fmt.Errorf("%w: dir must not be empty", ErrInvalidConfig)
	case c.Samples <= 0:
		return fmt.Errorf("%w: samples must be positive", ErrInvalidConfig)
	case c.MaxFrame <= c.Delta+1:
		return fmt.Errorf("%w: max frame must exceed delta+1", ErrInvalidConfig)
	case c.MaxDelay < 0 || c.Delta < 0:
		return fmt.Errorf("%w: delays must not be negative", ErrInvalidConfig)
	}
	for _, r := range []float64{c.FireRate, c.DetectRate, c.EarlyRate, c.FalseAlarmRate} {
		if r < 0 || r > 1 {
			return fmt.Errorf("%w: rates must be within [0, 1]", ErrInvalidConfig)
		}
	}
	return nil
}

// Generate writes cfg.Samples sample files into Dir/results and Dir/labels
// plus a manifest of the intended classes.
func Generate(ctx context.Context, cfg Config) (Stats, error) {
	if err := cfg.validate(); err != nil {
		return Stats{}, err
	}
	log := logger.Get().Named("testevents")

	resultsDir := filepath.Join(cfg.Dir, resultsDirName)
	labelsDir := filepath.Join(cfg.Dir, labelsDirName)
	for _, d := range []string{resultsDir, labelsDir} {
		if err := os.MkdirAll(d, directoryPermission); err != nil {
			return Stats{}, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible fixtures
	samples := make([]Sample, 0, cfg.Samples)
	stats := Stats{Samples: cfg.Samples}

	for i := 0; i < cfg.Samples; i++ {
		if err := ctx.Err(); err != nil {
			return Stats{}, fmt.Errorf("context cancelled during generation: %w", err)
		}

		s := generateSample(rng, cfg, fmt.Sprintf(keyFormat, i))
		if err := writeValue(filepath.Join(resultsDir, s.Key+sampleExt), s.Predicted); err != nil {
			return Stats{}, err
		}
		if err := writeValue(filepath.Join(labelsDir, s.Key+sampleExt), s.Truth); err != nil {
			return Stats{}, err
		}
		stats.add(s.Intended)
		samples = append(samples, s)
	}

	if err := saveManifest(filepath.Join(cfg.Dir, manifestName), samples); err != nil {
		return Stats{}, err
	}

	log.Info(ctx, "generated samples",
		logger.String("dir", cfg.Dir),
		logger.Int("samples", stats.Samples),
		logger.Int("tp", stats.TruePositive),
		logger.Int("fp", stats.FalsePositive),
		logger.Int("fn", stats.FalseNegative),
		logger.Int("tn", stats.TrueNegative))
	return stats, nil
}

// generateSample draws one sample. Early detections land strictly before
// the tolerance window, so the intended class is what the evaluator sees.
func generateSample(rng *rand.Rand, cfg Config, key string) Sample {
	s := Sample{Key: key}

	if rng.Float64() >= cfg.FireRate {
		if rng.Float64() < cfg.FalseAlarmRate {
			s.Predicted = intPtr(rng.Intn(cfg.MaxFrame))
			s.Intended = detection.FalsePositive.String()
		} else {
			s.Intended = detection.TrueNegative.String()
		}
		return s
	}

	// Keep room below the event for an early detection.
	truth := cfg.Delta + 1 + rng.Intn(cfg.MaxFrame-cfg.Delta-1)
	s.Truth = intPtr(truth)

	switch {
	case rng.Float64() >= cfg.DetectRate:
		s.Intended = detection.FalseNegative.String()
	case rng.Float64() < cfg.EarlyRate:
		s.Predicted = intPtr(rng.Intn(truth - cfg.Delta))
		s.Intended = detection.FalsePositive.String()
	default:
		s.Predicted = intPtr(truth + rng.Intn(cfg.MaxDelay+1))
		s.Intended = detection.TruePositive.String()
	}
	return s
}

func (s *Stats) add(class string) {
	switch class {
	case detection.TruePositive.String():
		s.TruePositive++
	case detection.FalsePositive.String():
		s.FalsePositive++
	case detection.FalseNegative.String():
		s.FalseNegative++
	default:
		s.TrueNegative++
	}
}

// writeValue writes a frame index, or an empty file for no event.
func writeValue(path string, v *int) error {
	var data []byte
	if v != nil {
		data = []byte(strconv.Itoa(*v))
	}
	if err := os.WriteFile(path, data, filePermission); err != nil {
		return fmt.Errorf("failed to write sample: %w", err)
	}
	return nil
}

func saveManifest(path string, samples []Sample) error {
	data, err := json.MarshalIndent(samples, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), filePermission); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func intPtr(v int) *int { return &v }
