// Package bridge defines the adapter contract every model bridge
// implements, plus the shared performance metrics recorder.
package bridge

import (
	"context"

	"github.com/dcondrey/BridgeNLP/pkg/bridge/document"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/result"
)

// Adapter normalizes one model's output into a token-indexed Result. The
// three entry points mirror the three input shapes a pipeline accepts:
// raw text, a pre-tokenized sequence, and a canonical document.
//
// Adapters must be safe for concurrent calls; the pipeline does not
// serialize calls to the same adapter. An adapter that needs to bound its
// own latency should enforce a timeout internally and return an error,
// which the pipeline degrades per its failure policy.
type Adapter interface {
	FromText(ctx context.Context, text string) (result.Result, error)
	FromTokens(ctx context.Context, tokens []string) (result.Result, error)
	FromDocument(ctx context.Context, doc document.Document) (result.Result, error)
}
