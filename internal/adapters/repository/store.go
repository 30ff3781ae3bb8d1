// Package repository loads sample observations from disk and pairs
// predictions with ground truth.
package repository

import (
	"context"

	"github.com/okian/fds/internal/domain/observation"
)

// Sample is one observation identified by its sample key.
type Sample struct {
	Key         string
	Name        string // file name the observation was read from
	Observation observation.Observation
}

// Series is a set of samples ordered by key.
type Series []Sample

// Keys returns the sample keys in order.
func (s Series) Keys() []string {
	keys := make([]string, len(s))
	for i, smp := range s {
		keys[i] = smp.Key
	}
	return keys
}

// Store provides read access to a directory of samples.
type Store interface {
	// Load reads every sample under dir.
	Load(ctx context.Context, dir string) (Series, error)
}
