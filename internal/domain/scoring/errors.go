package scoring

import "errors"

// Sentinel error kinds for this package.
var (
	// ErrUndefinedMetric indicates a ratio whose denominator was zero.
	ErrUndefinedMetric = errors.New("metric undefined")

	// ErrInvalidResources indicates negative resource measurements.
	ErrInvalidResources = errors.New("invalid resource measurements")
)
