package document

import (
	"sync"

	"github.com/dcondrey/BridgeNLP/pkg/bridge/internalerr"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/result"
)

// Registry is the annotation side-table: an owned mapping from document
// identity to the combined result attached to that document. Documents are
// external values we cannot extend inline, so attachment goes through
// identity lookup instead.
//
// Results are deep-copied in both directions; a caller mutating what it
// attached or looked up never disturbs the stored annotation.
type Registry struct {
	mu sync.RWMutex
	m  map[string]result.Result
}

// NewRegistry creates an empty annotation registry.
func NewRegistry() *Registry {
	return &Registry{m: make(map[string]result.Result)}
}

// Attach stores res as the annotation for doc, replacing any previous one.
// Attaching to a nil document is a precondition violation and fails loudly.
func (r *Registry) Attach(doc Document, res result.Result) error {
	if doc == nil {
		return internalerr.ErrNilDocument
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[doc.ID()] = res.Clone()
	return nil
}

// Lookup returns a copy of the annotation attached to doc, if any.
func (r *Registry) Lookup(doc Document) (result.Result, bool) {
	if doc == nil {
		return result.Result{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.m[doc.ID()]
	if !ok {
		return result.Result{}, false
	}
	return res.Clone(), true
}

// Detach removes the annotation for doc.
func (r *Registry) Detach(doc Document) {
	if doc == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, doc.ID())
}

// Len returns the number of annotated documents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}
