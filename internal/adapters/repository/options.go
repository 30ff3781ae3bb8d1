package repository

import "github.com/okian/fds/pkg/logger"

// Option applies a configuration option to the DirStore.
type Option func(*DirStore)

// WithLogger sets the logger used to report skipped entries.
func WithLogger(l logger.Logger) Option {
	return func(s *DirStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithExtensions restricts loading to files with one of the given
// extensions, e.g. ".txt". No extensions means every regular file.
func WithExtensions(exts ...string) Option {
	return func(s *DirStore) {
		s.extensions = make(map[string]struct{}, len(exts))
		for _, e := range exts {
			if e != "" {
				s.extensions[e] = struct{}{}
			}
		}
	}
}
