package scoring

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithPFRTarget sets the frame rate at or above which no penalty applies.
func WithPFRTarget(target float64) Option {
	return func(s *Scorer) {
		if target > 0 {
			s.pfrTarget = target
		}
	}
}

// WithMemTarget sets the memory usage at or below which no penalty applies.
func WithMemTarget(target float64) Option {
	return func(s *Scorer) {
		if target > 0 {
			s.memTarget = target
		}
	}
}

// WithMaxDelay sets the mean delay at which the normalized delay reaches 0.
func WithMaxDelay(frames float64) Option {
	return func(s *Scorer) {
		if frames > 0 {
			s.maxDelay = frames
		}
	}
}
