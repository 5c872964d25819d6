// Package pipeline runs an ordered list of adapters over one input and
// folds their partial results into a single combined Result.
//
// The pipeline never crashes its caller: adapter errors, predicate panics
// and key-construction failures all degrade to a best-effort Result plus a
// logged warning. Callers needing strict propagation must inspect the
// returned Result for emptiness.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oklog/ulid/v2"
	"k8s.io/klog/v2"

	"github.com/dcondrey/BridgeNLP/pkg/bridge"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/config"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/document"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/internalerr"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/result"
)

// Condition gates whether one adapter runs. It receives a snapshot of the
// combined result so far and must return a boolean without side effects;
// purity is documented, not enforced.
type Condition func(result.Result) bool

// Pipeline feeds the same input to each registered adapter in order and
// combines the partial results. It is safe for concurrent use from any
// number of goroutines sharing the one instance.
//
// Four independent locks guard the four shared resources (adapter list,
// condition registry, result cache, metrics) so unrelated operations never
// contend on one coarse lock.
type Pipeline struct {
	adaptersMu sync.RWMutex
	adapters   []bridge.Adapter

	condMu     sync.Mutex
	conditions map[int]Condition

	cacheMu  sync.Mutex
	cache    *lru.Cache[string, result.Result]
	cacheOn  bool
	registry *document.Registry

	metrics        *bridge.Metrics
	collectMetrics bool
}

// New creates a pipeline over the given adapters. At least one adapter is
// required; registering none is a programmer error and fails loudly.
func New(cfg config.Config, adapters ...bridge.Adapter) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(adapters) == 0 {
		return nil, internalerr.ErrNoAdapters
	}

	cache, err := lru.New[string, result.Result](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("pipeline cache: %w", err)
	}
	return &Pipeline{
		adapters:       append([]bridge.Adapter(nil), adapters...),
		conditions:     make(map[int]Condition),
		cache:          cache,
		cacheOn:        cfg.CacheResults,
		registry:       document.NewRegistry(),
		metrics:        bridge.NewMetrics(),
		collectMetrics: cfg.CollectMetrics,
	}, nil
}

// AddAdapter appends an adapter to the end of the run order.
func (p *Pipeline) AddAdapter(a bridge.Adapter) {
	p.adaptersMu.Lock()
	p.adapters = append(p.adapters, a)
	p.adaptersMu.Unlock()
}

// AddCondition registers a predicate gating whether the adapter at index
// runs. The predicate is evaluated against a deep copy of the combined
// result accumulated before that adapter.
func (p *Pipeline) AddCondition(index int, cond Condition) {
	p.condMu.Lock()
	p.conditions[index] = cond
	p.condMu.Unlock()
}

// Registry returns the annotation side-table documents are attached
// through.
func (p *Pipeline) Registry() *document.Registry { return p.registry }

// GetMetrics returns aggregate call counters with derived averages.
func (p *Pipeline) GetMetrics() map[string]float64 { return p.metrics.Snapshot() }

// ResetMetrics zeroes the aggregate counters.
func (p *Pipeline) ResetMetrics() { p.metrics.Reset() }

// Close shuts down every adapter that implements io.Closer.
func (p *Pipeline) Close() error {
	p.adaptersMu.RLock()
	defer p.adaptersMu.RUnlock()
	var firstErr error
	for _, a := range p.adapters {
		if c, ok := a.(io.Closer); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// FromText runs every adapter over raw text and returns the combined
// result. Failures degrade to whatever was combined before the failing
// stage; an empty or blank input yields an empty result immediately.
func (p *Pipeline) FromText(ctx context.Context, text string) result.Result {
	start := time.Now()
	defer p.recordCall(start)

	if strings.TrimSpace(text) == "" {
		return result.Result{}
	}

	key := "text:" + fingerprint(text)
	if cached, ok := p.checkCache(key); ok {
		return cached
	}

	combined := p.run(ctx, key, func(a bridge.Adapter) (result.Result, error) {
		return a.FromText(ctx, text)
	})
	return combined
}

// FromTokens runs every adapter over a pre-tokenized sequence.
func (p *Pipeline) FromTokens(ctx context.Context, tokens []string) result.Result {
	start := time.Now()
	defer p.recordCall(start)

	if len(tokens) == 0 {
		return result.Result{}
	}

	key := "tokens:" + fingerprint(strings.Join(tokens, "\x00"))
	if cached, ok := p.checkCache(key); ok {
		return cached
	}

	safe := append([]string(nil), tokens...)
	combined := p.run(ctx, key, func(a bridge.Adapter) (result.Result, error) {
		return a.FromTokens(ctx, safe)
	})
	return combined
}

// FromDocument runs every adapter over a canonical document, attaches the
// combined result to it through the registry, and returns the result. A
// nil document is a precondition violation and fails loudly.
func (p *Pipeline) FromDocument(ctx context.Context, doc document.Document) (result.Result, error) {
	start := time.Now()
	defer p.recordCall(start)

	if doc == nil {
		return result.Result{}, internalerr.ErrNilDocument
	}

	key := documentKey(doc)
	if cached, ok := p.checkCache(key); ok {
		if err := p.registry.Attach(doc, cached); err != nil {
			return result.Result{}, err
		}
		return cached, nil
	}

	combined := p.run(ctx, key, func(a bridge.Adapter) (result.Result, error) {
		return a.FromDocument(ctx, doc)
	})
	if err := p.registry.Attach(doc, combined); err != nil {
		return result.Result{}, err
	}
	return combined, nil
}

// run executes the adapter chain under the degradation policy, stores the
// final result in the cache, and returns a private copy. On any stage
// failure the run aborts and returns the partial combination accumulated
// so far.
func (p *Pipeline) run(ctx context.Context, key string, call func(bridge.Adapter) (result.Result, error)) result.Result {
	p.adaptersMu.RLock()
	local := append([]bridge.Adapter(nil), p.adapters...)
	p.adaptersMu.RUnlock()

	var combined result.Result
	for i, adapter := range local {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				klog.Warningf("pipeline: context ended before adapter %d: %v", i, err)
				p.metrics.RecordError()
				return combined
			}
		}

		skip, err := p.checkCondition(i, combined)
		if err != nil {
			klog.Warningf("pipeline: condition for adapter %d failed: %v", i, err)
			p.metrics.RecordError()
			return combined
		}
		if skip {
			continue
		}

		next, err := safeCall(adapter, call)
		if err != nil {
			klog.Warningf("pipeline: adapter %d failed: %v", i, err)
			p.metrics.RecordError()
			return combined
		}
		combined = result.Combine(combined, next)
	}

	p.metrics.AddTokens(len(combined.Tokens))
	p.storeCache(key, combined)
	return combined.Clone()
}

// checkCondition evaluates the predicate registered for index, if any,
// against a snapshot copy. A panicking predicate is reported as an error.
func (p *Pipeline) checkCondition(index int, combined result.Result) (skip bool, err error) {
	p.condMu.Lock()
	cond, ok := p.conditions[index]
	p.condMu.Unlock()
	if !ok {
		return false, nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("condition panicked: %v", r)
		}
	}()
	return !cond(combined.Clone()), nil
}

// safeCall invokes the adapter, converting a panic into an error so one
// misbehaving adapter cannot crash the pipeline.
func safeCall(a bridge.Adapter, call func(bridge.Adapter) (result.Result, error)) (res result.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = result.Result{}
			err = fmt.Errorf("adapter panicked: %v", r)
		}
	}()
	return call(a)
}

func (p *Pipeline) checkCache(key string) (result.Result, bool) {
	if !p.cacheOn {
		return result.Result{}, false
	}
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	if cached, ok := p.cache.Get(key); ok {
		return cached.Clone(), true
	}
	return result.Result{}, false
}

func (p *Pipeline) storeCache(key string, res result.Result) {
	if !p.cacheOn {
		return
	}
	p.cacheMu.Lock()
	p.cache.Add(key, res.Clone())
	p.cacheMu.Unlock()
}

func (p *Pipeline) recordCall(start time.Time) {
	if p.collectMetrics {
		p.metrics.RecordCall(start)
	}
}

// documentKey fingerprints a document by text and token identity. A
// document with no usable identity gets a fresh unique key, which simply
// bypasses the cache for that call.
func documentKey(doc document.Document) string {
	tokens := doc.Tokens()
	texts := make([]string, len(tokens))
	for i, t := range tokens {
		texts[i] = t.Text
	}
	if doc.ID() == "" {
		return "doc:" + ulid.Make().String()
	}
	return "doc:" + fingerprint(doc.Text()) + ":" + fingerprint(strings.Join(texts, "\x00"))
}

// fingerprint returns a short deterministic hash of s.
func fingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:16])
}
