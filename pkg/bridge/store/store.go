// Package store persists combined pipeline results keyed by document
// identity, so annotations survive the process that produced them.
package store

import (
	"context"
	"time"

	"github.com/dcondrey/BridgeNLP/pkg/bridge/result"
)

// Annotation is one persisted combined result for one document.
type Annotation struct {
	DocID     string
	Text      string
	Result    result.Result
	CreatedAt time.Time
}

// Store is the persistence interface for annotations.
type Store interface {
	Close() error

	UpsertAnnotation(ctx context.Context, a Annotation) error
	GetAnnotation(ctx context.Context, docID string) (Annotation, bool, error)
	ListAnnotations(ctx context.Context, limit int) ([]Annotation, error)
	DeleteAnnotation(ctx context.Context, docID string) error
}
