// Package memstore is an in-memory store.Store implementation, used in
// tests and for processes that do not need persistence.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/dcondrey/BridgeNLP/pkg/bridge/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu          sync.RWMutex
	annotations map[string]store.Annotation
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{annotations: make(map[string]store.Annotation)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertAnnotation inserts or replaces the annotation for a document.
func (s *Store) UpsertAnnotation(ctx context.Context, a store.Annotation) error {
	if a.DocID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a.Result = a.Result.Clone()
	s.annotations[a.DocID] = a
	return nil
}

// GetAnnotation returns the annotation for a document, if present.
func (s *Store) GetAnnotation(ctx context.Context, docID string) (store.Annotation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.annotations[docID]
	if !ok {
		return store.Annotation{}, false, nil
	}
	a.Result = a.Result.Clone()
	return a, true, nil
}

// ListAnnotations returns up to limit annotations, newest first.
func (s *Store) ListAnnotations(ctx context.Context, limit int) ([]store.Annotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	out := make([]store.Annotation, 0, len(s.annotations))
	for _, a := range s.annotations {
		a.Result = a.Result.Clone()
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteAnnotation removes the annotation for a document.
func (s *Store) DeleteAnnotation(ctx context.Context, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.annotations, docID)
	return nil
}
