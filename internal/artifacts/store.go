// Package artifacts manages the per-analysis output directories.
package artifacts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/KaramelBytes/edalens/internal/utils"
)

// ErrNotFound is returned when a run or file does not exist or the
// requested name is not a valid artifact reference.
var ErrNotFound = errors.New("artifact not found")

// Store hands out one directory per analysis under Root. Directories are
// named by a random UUID so concurrent analyses never share files.
type Store struct {
	Root string
}

// NewStore returns a store rooted at root, creating it if needed.
func NewStore(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("artifacts root cannot be empty")
	}
	if err := utils.EnsureDir(root); err != nil {
		return nil, fmt.Errorf("create artifacts root: %w", err)
	}
	return &Store{Root: root}, nil
}

// NewRun creates a fresh run directory and returns its id and path.
func (s *Store) NewRun() (id, dir string, err error) {
	id = uuid.NewString()
	dir = filepath.Join(s.Root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create run dir: %w", err)
	}
	return id, dir, nil
}

// Dir returns the directory of run id without touching the filesystem.
func (s *Store) Dir(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrNotFound
	}
	return filepath.Join(s.Root, id), nil
}

// Path resolves file inside run id. Names that are not a single path
// element are rejected.
func (s *Store) Path(id, file string) (string, error) {
	dir, err := s.Dir(id)
	if err != nil {
		return "", err
	}
	if file == "" || file != filepath.Base(file) || file == "." || file == ".." {
		return "", ErrNotFound
	}
	p := filepath.Join(dir, file)
	if !utils.WithinDir(dir, p) {
		return "", ErrNotFound
	}
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", ErrNotFound
	}
	return p, nil
}

// Remove deletes run id and everything in it.
func (s *Store) Remove(id string) error {
	dir, err := s.Dir(id)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

// Sweep removes run directories last modified before now-olderThan and
// returns how many were removed. Entries that are not run directories are
// left alone.
func (s *Store) Sweep(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read artifacts root: %w", err)
	}
	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := uuid.Parse(e.Name()); err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.Root, e.Name())); err != nil {
			return removed, fmt.Errorf("remove run %s: %w", e.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// StartSweeper runs Sweep every interval until ctx is done. A non-positive
// ttl disables sweeping and artifacts accumulate on disk.
func (s *Store) StartSweeper(ctx context.Context, ttl, interval time.Duration) {
	if ttl <= 0 {
		return
	}
	if interval <= 0 {
		interval = ttl / 2
		if interval < time.Minute {
			interval = time.Minute
		}
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := s.Sweep(ttl)
				if err != nil {
					log.Warn().Err(err).Msg("artifact sweep failed")
					continue
				}
				if n > 0 {
					log.Info().Int("removed", n).Dur("ttl", ttl).Msg("expired artifacts removed")
				}
			}
		}
	}()
}
