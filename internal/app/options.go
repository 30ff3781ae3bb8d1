package service

import (
	"github.com/okian/fds/internal/adapters/repository"
	"github.com/okian/fds/internal/domain/scoring"
	"github.com/okian/fds/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the sample store used for both directories.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder sets where run metrics are recorded.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithPairing sets how predictions are matched to labels.
func WithPairing(mode repository.PairingMode) Option {
	return func(s *Service) {
		if mode != "" {
			s.pairing = mode
		}
	}
}

// WithDelta sets the early-detection tolerance in frames.
func WithDelta(delta int) Option {
	return func(s *Service) {
		if delta >= 0 {
			s.delta = delta
		}
	}
}

// WithScorer sets the scorer used to derive the report.
func WithScorer(scorer *scoring.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}
