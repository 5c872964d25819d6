// Package adapters provides model-free reference adapters. They exercise
// the alignment and combination machinery exactly the way external model
// bridges do, without loading any model.
package adapters

import (
	"context"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dcondrey/BridgeNLP/pkg/bridge"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/align"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/config"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/document"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/result"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/script"
)

// Phrase is one dictionary entry: a canonical form, spelling variants, and
// the category reported when any of them is found.
type Phrase struct {
	Canonical string   `yaml:"canonical"`
	Category  string   `yaml:"category"`
	Variants  []string `yaml:"variants"`
}

// PhraseMatcher annotates occurrences of dictionary phrases as spans. Each
// phrase is mapped onto the canonical token sequence with the aligner, so
// approximate and cross-script matches are found too.
type PhraseMatcher struct {
	phrases []Phrase
	aligner *align.Aligner
	metrics *bridge.Metrics
	collect bool
}

// NewPhraseMatcher creates a matcher over the given dictionary, with the
// aligner tuned from the config's threshold and cache bound.
func NewPhraseMatcher(cfg config.Config, phrases []Phrase) *PhraseMatcher {
	return &PhraseMatcher{
		phrases: phrases,
		aligner: align.New(align.Options{
			Threshold: cfg.AlignThreshold,
			CacheSize: cfg.CacheSize,
		}),
		metrics: bridge.NewMetrics(),
		collect: cfg.CollectMetrics,
	}
}

// FromText processes raw text.
func (m *PhraseMatcher) FromText(ctx context.Context, text string) (result.Result, error) {
	return m.FromDocument(ctx, document.New(text))
}

// FromTokens processes a pre-tokenized sequence.
func (m *PhraseMatcher) FromTokens(ctx context.Context, tokens []string) (result.Result, error) {
	return m.FromDocument(ctx, document.FromTokens(tokens))
}

// FromDocument maps every dictionary phrase onto the document's canonical
// tokens. The first variant of a phrase that aligns wins; unmatched
// phrases simply contribute nothing.
func (m *PhraseMatcher) FromDocument(ctx context.Context, doc document.Document) (result.Result, error) {
	start := time.Now()
	defer m.record(start)

	if doc == nil {
		return result.Result{}, nil
	}

	tokens := doc.Tokens()
	texts := make([]string, len(tokens))
	for i, t := range tokens {
		texts[i] = t.Text
	}
	res := result.New(texts)

	for _, phrase := range m.phrases {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		for _, form := range append([]string{phrase.Canonical}, phrase.Variants...) {
			span, ok := m.aligner.FuzzyAlign(doc, form, script.Tag(""))
			if !ok {
				continue
			}
			res.Spans = append(res.Spans, span)
			res.Roles = append(res.Roles, result.Role{
				"label": phrase.Category,
				"text":  phrase.Canonical,
			})
			break
		}
	}

	m.metrics.AddTokens(len(texts))
	return res, nil
}

// GetMetrics returns this adapter's performance counters.
func (m *PhraseMatcher) GetMetrics() map[string]float64 { return m.metrics.Snapshot() }

func (m *PhraseMatcher) record(start time.Time) {
	if m.collect {
		m.metrics.RecordCall(start)
	}
}

// phraseFile is the YAML shape of a phrase dictionary.
type phraseFile struct {
	Phrases []Phrase `yaml:"phrases"`
}

// LoadPhrases reads a phrase dictionary from a YAML file.
func LoadPhrases(path string) ([]Phrase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pf phraseFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, err
	}
	return pf.Phrases, nil
}
