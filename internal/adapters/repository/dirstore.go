package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/okian/fds/internal/domain/observation"
	"github.com/okian/fds/pkg/logger"
)

// DirStore reads one observation per file from a directory. The sample key
// is the file name without its extension, so results/clip_01.txt and
// labels/clip_01.txt describe the same sample.
type DirStore struct {
	logger     logger.Logger
	extensions map[string]struct{}
}

var _ Store = (*DirStore)(nil)

// NewDirStore creates a directory-backed Store.
func NewDirStore(opts ...Option) *DirStore {
	s := &DirStore{
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads every non-hidden file under dir. Symlinks are followed; a
// link whose target is not a regular file is skipped.
func (s *DirStore) Load(ctx context.Context, dir string) (Series, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSource, err)
	}

	series := make(Series, 0, len(entries))
	seen := make(map[string]string, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("loading %s: %w", dir, err)
		}

		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			s.logger.Debug(ctx, "skipping entry", logger.String("dir", dir), logger.String("name", name))
			continue
		}
		if !entry.Type().IsRegular() {
			info, err := os.Stat(filepath.Join(dir, name))
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrReadSource, err)
			}
			if !info.Mode().IsRegular() {
				s.logger.Warn(ctx, "skipping non-regular entry", logger.String("dir", dir), logger.String("name", name))
				continue
			}
		}
		ext := filepath.Ext(name)
		if len(s.extensions) > 0 {
			if _, ok := s.extensions[ext]; !ok {
				s.logger.Debug(ctx, "skipping file with unlisted extension", logger.String("dir", dir), logger.String("name", name))
				continue
			}
		}

		key := strings.TrimSuffix(name, ext)
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %q from %s and %s in %s", ErrDuplicateKey, key, prev, name, dir)
		}
		seen[key] = name

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadSource, err)
		}
		obs, err := observation.Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", filepath.Join(dir, name), err)
		}

		series = append(series, Sample{Key: key, Name: name, Observation: obs})
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Key < series[j].Key })

	s.logger.Debug(ctx, "loaded samples", logger.String("dir", dir), logger.Int("count", len(series)))
	return series, nil
}
