package observation

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidObservation = errors.New("invalid observation")
)
