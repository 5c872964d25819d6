// Package align maps spans of text produced by one tokenizer onto the
// index space of an externally owned canonical token sequence: exact
// substring alignment first, then fuzzy windowed search when that fails.
package align

import (
	"sort"
	"strings"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dcondrey/BridgeNLP/pkg/bridge/document"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/result"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/script"
)

const (
	// DefaultThreshold is the minimum fuzzy score accepted as a match.
	DefaultThreshold = 0.5
	// DefaultCacheSize bounds the alignment memo.
	DefaultCacheSize = 1024
	// windowSlack widens the candidate search to window sizes within
	// this many tokens of the target's token count.
	windowSlack = 2
)

// Options tunes an Aligner. Zero values select the documented defaults;
// the threshold and scorer weights are deliberately configurable rather
// than hard constants.
//
// A Threshold of 0 means DefaultThreshold, not "accept anything": scores
// are clamped to [0,1] and 0 only arises for degenerate inputs, so an
// accept-all threshold has no use. Callers wanting near-accept-all
// behavior pass a small positive value.
type Options struct {
	Threshold     float64
	OverlapWeight float64
	OrderWeight   float64
	CacheSize     int
}

// Aligner finds the best-matching contiguous token span for a target text.
// All entry points are total: malformed input yields "no match", never a
// panic or an error.
//
// The fuzzy search is O(document tokens × window variants) per target;
// callers working over large documents repeatedly should lean on the
// bounded memo rather than expect the search itself to get cheaper.
type Aligner struct {
	opts  Options
	cache *lru.Cache[string, cachedSpan]
}

type cachedSpan struct {
	span result.Span
	ok   bool
}

// New creates an aligner, filling unset options with defaults.
func New(opts Options) *Aligner {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.OverlapWeight <= 0 && opts.OrderWeight <= 0 {
		opts.OverlapWeight = 1
		opts.OrderWeight = 1
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	cache, _ := lru.New[string, cachedSpan](opts.CacheSize)
	return &Aligner{opts: opts, cache: cache}
}

// ExactAlign finds target as a verbatim, case-insensitive substring of the
// document text and maps the matched character range back to the minimal
// covering token span. Returns false when no verbatim match exists.
func (a *Aligner) ExactAlign(doc document.Document, target string) (result.Span, bool) {
	if doc == nil {
		return result.Span{}, false
	}
	target = strings.TrimSpace(target)
	tokens := doc.Tokens()
	if target == "" || len(tokens) == 0 {
		return result.Span{}, false
	}

	key := "exact\x00" + doc.ID() + "\x00" + lowerRunesString(target)
	if hit, ok := a.cache.Get(key); ok {
		return hit.span, hit.ok
	}

	span, ok := exactSearch(doc.Text(), tokens, target)
	a.cache.Add(key, cachedSpan{span: span, ok: ok})
	return span, ok
}

// FuzzyAlign finds the best approximate token span for target. An empty
// tag means "classify the target first". Exact alignment is tried before
// the windowed search so a verbatim occurrence always wins.
func (a *Aligner) FuzzyAlign(doc document.Document, target string, tag script.Tag) (result.Span, bool) {
	if doc == nil {
		return result.Span{}, false
	}
	target = strings.TrimSpace(target)
	tokens := doc.Tokens()
	if target == "" || len(tokens) == 0 {
		return result.Span{}, false
	}
	if tag == "" {
		tag = script.Classify(target)
	}

	key := "fuzzy\x00" + doc.ID() + "\x00" + lowerRunesString(target) + "\x00" + string(tag)
	if hit, ok := a.cache.Get(key); ok {
		return hit.span, hit.ok
	}

	span, ok := exactSearch(doc.Text(), tokens, target)
	if !ok {
		span, ok = a.fuzzySearch(tokens, target, tag)
	}
	a.cache.Add(key, cachedSpan{span: span, ok: ok})
	return span, ok
}

// CacheLen returns the number of memoized alignments.
func (a *Aligner) CacheLen() int { return a.cache.Len() }

// exactSearch locates target in text case-insensitively and converts the
// character range to the minimal covering token span.
func exactSearch(text string, tokens []document.Token, target string) (result.Span, bool) {
	haystack := []rune(lowerRunesString(text))
	needle := []rune(lowerRunesString(strings.TrimSpace(target)))
	if len(needle) == 0 {
		return result.Span{}, false
	}

	at := indexRunes(haystack, needle)
	if at < 0 {
		return result.Span{}, false
	}
	return coveringSpan(tokens, at, at+len(needle))
}

// coveringSpan maps the half-open character range [cs, ce) to the minimal
// token span whose offsets cover it.
func coveringSpan(tokens []document.Token, cs, ce int) (result.Span, bool) {
	start := sort.Search(len(tokens), func(i int) bool { return tokens[i].End > cs })
	if start == len(tokens) {
		return result.Span{}, false
	}
	end := start
	for end < len(tokens) && tokens[end].Start < ce {
		end++
	}
	if end == start {
		return result.Span{}, false
	}
	return result.Span{Start: start, End: end}, true
}

// fuzzySearch slides windows of the target's token count (±windowSlack)
// over the document tokens and scores each against the script-tokenized
// target. The earliest window with the strictly highest score wins, and
// only a score at or above the threshold is accepted.
func (a *Aligner) fuzzySearch(tokens []document.Token, target string, tag script.Tag) (result.Span, bool) {
	tok := script.For(tag)
	targetToks := tok.Tokenize(target)
	if len(targetToks) == 0 {
		return result.Span{}, false
	}
	scorer := ScorerFor(tag, a.opts.OverlapWeight, a.opts.OrderWeight)

	// Normalize every document token once; windows concatenate the
	// per-token unit lists.
	units := make([][]string, len(tokens))
	for i, t := range tokens {
		units[i] = tok.Tokenize(t.Text)
	}

	bestScore := -1.0
	var best result.Span
	for _, w := range windowSizes(len(targetToks), len(tokens)) {
		for start := 0; start+w <= len(tokens); start++ {
			var candidate []string
			for i := start; i < start+w; i++ {
				candidate = append(candidate, units[i]...)
			}
			if s := scorer.Score(candidate, targetToks); s > bestScore {
				bestScore = s
				best = result.Span{Start: start, End: start + w}
			}
		}
	}

	if bestScore < a.opts.Threshold {
		return result.Span{}, false
	}
	return best, true
}

// windowSizes orders candidate window widths: the target's own token
// count first, then widths progressively further from it, capped by the
// document length. The ordering makes the canonical width win score ties.
func windowSizes(n, max int) []int {
	var sizes []int
	add := func(w int) {
		if w >= 1 && w <= max {
			sizes = append(sizes, w)
		}
	}
	add(n)
	for d := 1; d <= windowSlack; d++ {
		add(n - d)
		add(n + d)
	}
	return sizes
}

// lowerRunesString lowers text rune by rune, preserving the rune count so
// character offsets stay valid.
func lowerRunesString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// indexRunes returns the rune index of the first occurrence of needle in
// haystack, or -1.
func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
