package marketdata

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"marketpulse/internal/infrastructure"
)

// Store memoises loaded tables by absolute path.
type Store struct {
	loader  *Loader
	logger  *slog.Logger
	metrics *infrastructure.DashboardMetrics

	mu      sync.RWMutex
	entries map[string]*Table
	group   singleflight.Group
}

// NewStore creates a store backed by loader.
func NewStore(loader *Loader, logger *slog.Logger, metrics *infrastructure.DashboardMetrics) *Store {
	if loader == nil {
		loader = NewLoader(logger, metrics)
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Store{
		loader:  loader,
		logger:  infrastructure.WithComponent(logger, "marketdata.store"),
		metrics: metrics,
		entries: make(map[string]*Table),
	}
}

// Get returns the table for path, loading it when the file is new or its
// modification time or size changed since the cached load.
func (s *Store) Get(ctx context.Context, path string) (*Table, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve data file path %q: %w", path, err)
	}

	info, err := os.Stat(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.Invalidate(key)
			return nil, &NotFoundError{Path: key}
		}
		return nil, fmt.Errorf("stat data file: %w", err)
	}

	s.mu.RLock()
	cached, ok := s.entries[key]
	s.mu.RUnlock()

	if ok && cached.modTime.Equal(info.ModTime()) && cached.size == info.Size() {
		if s.metrics != nil {
			s.metrics.CacheHits.Add(ctx, 1)
		}
		return cached, nil
	}

	if s.metrics != nil {
		s.metrics.CacheMisses.Add(ctx, 1)
	}
	if ok {
		s.logger.InfoContext(ctx, "Data file changed, reloading",
			slog.String("path", key),
			slog.Time("cached_mod_time", cached.modTime),
			slog.Time("mod_time", info.ModTime()))
	}

	// The shared load must outlive any single caller's cancellation.
	loadCtx := context.WithoutCancel(ctx)
	v, err, shared := s.group.Do(key, func() (any, error) {
		table, err := s.loader.Load(loadCtx, key)
		if err != nil {
			if errors.Is(err, ErrFileNotFound) {
				s.Invalidate(key)
			}
			return nil, err
		}
		s.mu.Lock()
		s.entries[key] = table
		s.mu.Unlock()
		return table, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.DebugContext(ctx, "Shared in-flight load", slog.String("path", key))
	}

	return v.(*Table), nil
}

// Invalidate drops the cached table for path.
func (s *Store) Invalidate(path string) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len returns the number of cached tables.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
