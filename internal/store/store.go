// Package store holds the in-memory collection each resource screen works
// from. A store is a cache of the upstream backend, not a system of record:
// after any successful write the owning service refreshes the whole
// collection rather than hand-merging the change.
package store

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the full collection from the backend.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Store caches one resource's records. Concurrent refreshes collapse into a
// single upstream fetch; a failed refresh keeps the previous snapshot so the
// last good data stays visible while the error surfaces to the caller.
type Store[T any] struct {
	fetch FetchFunc[T]
	group singleflight.Group

	mu      sync.RWMutex
	records []T
	loaded  bool
}

// New creates a store backed by the given fetch function.
func New[T any](fetch FetchFunc[T]) *Store[T] {
	return &Store[T]{fetch: fetch}
}

// Refresh fetches the full collection and replaces the snapshot. Concurrent
// callers share one in-flight fetch and all receive its result.
func (s *Store[T]) Refresh(ctx context.Context) ([]T, error) {
	v, err, _ := s.group.Do("refresh", func() (any, error) {
		records, err := s.fetch(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			// Keep the previous snapshot; the caller decides what to show.
			return s.copyLocked(), err
		}
		s.records = records
		s.loaded = true
		return s.copyLocked(), nil
	})
	return v.([]T), err
}

// Ensure returns the snapshot, fetching it first if the store was never
// successfully loaded.
func (s *Store[T]) Ensure(ctx context.Context) ([]T, error) {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return s.Snapshot(), nil
	}
	return s.Refresh(ctx)
}

// Snapshot returns a copy of the current records.
func (s *Store[T]) Snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// Mutate runs fn against the live record slice under the write lock. Used by
// optimistic toggles to patch a single record in place.
func (s *Store[T]) Mutate(fn func(records []T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.records)
}

func (s *Store[T]) copyLocked() []T {
	out := make([]T, len(s.records))
	copy(out, s.records)
	return out
}
