package bridge_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dcondrey/BridgeNLP/pkg/bridge/adapters"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/config"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/document"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/pipeline"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/result"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/store"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/store/memstore"
)

// End-to-end: tokenize text, run two adapters through the pipeline,
// inspect the combined annotation, attach it to the document, persist it,
// and export it as JSON.
func TestAnnotationWorkflow(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	cfg.CollectMetrics = true

	matcher := adapters.NewPhraseMatcher(cfg, []adapters.Phrase{
		{Canonical: "machine learning", Category: "TOPIC", Variants: []string{"ML"}},
	})
	sentiment := adapters.NewSentiment(cfg,
		[]string{"great", "useful"},
		[]string{"terrible"})

	p, err := pipeline.New(cfg, matcher, sentiment)
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}
	defer p.Close()

	doc := document.New("Machine learning is great for research")
	res, err := p.FromDocument(ctx, doc)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}

	// Phrase matcher contribution: one span covering "Machine learning".
	if len(res.Spans) != 1 {
		t.Fatalf("spans = %v, want one", res.Spans)
	}
	if got, want := res.Spans[0], (result.Span{Start: 0, End: 2}); got != want {
		t.Errorf("span = %v, want %v", got, want)
	}

	// Sentiment contribution: per-token labels survive combination because
	// the matcher leaves labels empty.
	if len(res.Labels) != len(res.Tokens) {
		t.Fatalf("labels = %v for tokens %v", res.Labels, res.Tokens)
	}
	if res.Labels[3] != "positive" {
		t.Errorf("labels[3] = %q, want positive", res.Labels[3])
	}

	// Roles from both adapters, base first.
	if len(res.Roles) != 2 {
		t.Fatalf("roles = %v, want matcher role then sentiment role", res.Roles)
	}
	if res.Roles[0]["label"] != "TOPIC" || res.Roles[1]["label"] != "positive" {
		t.Errorf("roles = %v", res.Roles)
	}

	// The combined result is attached to the document via the registry.
	attached, ok := p.Registry().Lookup(doc)
	if !ok {
		t.Fatal("no annotation attached to the document")
	}
	if len(attached.Spans) != 1 {
		t.Errorf("attached spans = %v", attached.Spans)
	}

	// Persist and read back.
	st := memstore.New()
	defer st.Close()
	ann := store.Annotation{DocID: doc.ID(), Text: doc.Text(), Result: res, CreatedAt: time.Now()}
	if err := st.UpsertAnnotation(ctx, ann); err != nil {
		t.Fatalf("UpsertAnnotation: %v", err)
	}
	stored, ok, err := st.GetAnnotation(ctx, doc.ID())
	if err != nil || !ok {
		t.Fatalf("GetAnnotation: ok=%v err=%v", ok, err)
	}
	if stored.Text != doc.Text() {
		t.Errorf("stored text = %q", stored.Text)
	}

	// JSON export is serializable as-is.
	data, err := json.Marshal(res.ToJSON())
	if err != nil {
		t.Fatalf("marshal export: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if _, ok := decoded["tokens"]; !ok {
		t.Error("export lacks tokens field")
	}

	// Metrics counted the run.
	snap := p.GetMetrics()
	if snap["num_calls"] != 1 {
		t.Errorf("num_calls = %v, want 1", snap["num_calls"])
	}
	if snap["errors"] != 0 {
		t.Errorf("errors = %v, want 0", snap["errors"])
	}
}

// End-to-end: a cached repeat of the same text is served without touching
// the adapters again, and the cached copy is isolated from the first.
func TestRepeatAnnotationIsCached(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()

	matcher := adapters.NewPhraseMatcher(cfg, []adapters.Phrase{
		{Canonical: "natural language processing", Category: "TOPIC"},
	})
	p, err := pipeline.New(cfg, matcher)
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}
	defer p.Close()

	first := p.FromText(ctx, "an intro to natural language processing")
	if len(first.Spans) != 1 {
		t.Fatalf("spans = %v, want one", first.Spans)
	}
	first.Tokens[0] = "mutated"

	second := p.FromText(ctx, "an intro to natural language processing")
	if second.Tokens[0] != "an" {
		t.Error("cached result shares memory with the first caller")
	}
	if len(second.Spans) != 1 {
		t.Errorf("cached spans = %v", second.Spans)
	}
}
