package adapters

import (
	"context"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dcondrey/BridgeNLP/pkg/bridge"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/config"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/document"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/result"
)

// Sentiment labels each token from a positive/negative word lexicon and
// reports an aggregate document polarity as a role entry.
type Sentiment struct {
	positive map[string]struct{}
	negative map[string]struct{}
	metrics  *bridge.Metrics
	collect  bool
}

// NewSentiment creates a lexicon-based sentiment adapter.
func NewSentiment(cfg config.Config, positive, negative []string) *Sentiment {
	return &Sentiment{
		positive: wordSet(positive),
		negative: wordSet(negative),
		metrics:  bridge.NewMetrics(),
		collect:  cfg.CollectMetrics,
	}
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

// FromText processes raw text.
func (s *Sentiment) FromText(ctx context.Context, text string) (result.Result, error) {
	return s.FromDocument(ctx, document.New(text))
}

// FromTokens processes a pre-tokenized sequence.
func (s *Sentiment) FromTokens(ctx context.Context, tokens []string) (result.Result, error) {
	return s.FromDocument(ctx, document.FromTokens(tokens))
}

// FromDocument assigns one label per canonical token and an aggregate
// polarity role scored in [-1, 1].
func (s *Sentiment) FromDocument(ctx context.Context, doc document.Document) (result.Result, error) {
	start := time.Now()
	defer s.record(start)

	if doc == nil {
		return result.Result{}, nil
	}
	if err := ctx.Err(); err != nil {
		return result.Result{}, err
	}

	tokens := doc.Tokens()
	texts := make([]string, len(tokens))
	labels := make([]string, len(tokens))
	pos, neg := 0, 0
	for i, t := range tokens {
		texts[i] = t.Text
		word := strings.ToLower(strings.Trim(t.Text, ".,;:!?\"'()"))
		switch {
		case member(s.positive, word):
			labels[i] = "positive"
			pos++
		case member(s.negative, word):
			labels[i] = "negative"
			neg++
		default:
			labels[i] = "neutral"
		}
	}

	res := result.New(texts)
	res.Labels = labels

	score := 0.0
	overall := "neutral"
	if pos+neg > 0 {
		score = float64(pos-neg) / float64(pos+neg)
		if score > 0 {
			overall = "positive"
		} else if score < 0 {
			overall = "negative"
		}
	}
	res.Roles = append(res.Roles, result.Role{
		"label": overall,
		"score": score,
	})

	s.metrics.AddTokens(len(texts))
	return res, nil
}

// GetMetrics returns this adapter's performance counters.
func (s *Sentiment) GetMetrics() map[string]float64 { return s.metrics.Snapshot() }

func (s *Sentiment) record(start time.Time) {
	if s.collect {
		s.metrics.RecordCall(start)
	}
}

func member(set map[string]struct{}, word string) bool {
	_, ok := set[word]
	return ok
}

// lexiconFile is the YAML shape of a sentiment lexicon.
type lexiconFile struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

// LoadLexicon reads positive and negative word lists from a YAML file.
func LoadLexicon(path string) (positive, negative []string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var lf lexiconFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, nil, err
	}
	return lf.Positive, lf.Negative, nil
}
