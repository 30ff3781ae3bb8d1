package repository

import "errors"

// Sentinel kinds for sample loading and pairing errors.
var (
	ErrReadSource     = errors.New("read sample source failed")
	ErrDuplicateKey   = errors.New("duplicate sample key")
	ErrUnpaired       = errors.New("unpaired samples")
	ErrLengthMismatch = errors.New("sample count mismatch")
	ErrUnknownPairing = errors.New("unknown pairing mode")
)
