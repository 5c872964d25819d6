package script

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Tokenizer splits text into the atomic units the scorer compares.
type Tokenizer interface {
	Tokenize(text string) []string
}

// For returns the tokenization strategy for a script tag.
func For(tag Tag) Tokenizer {
	switch tag {
	case Latin, Cyrillic:
		return wordTokenizer{}
	case CJK:
		return cjkTokenizer{}
	case Arabic:
		return arabicTokenizer{}
	default:
		return defaultTokenizer{}
	}
}

// wordTokenizer splits on whitespace and punctuation boundaries and
// lower-cases tokens. Internal hyphens are kept so that hyphenated words
// compare as single units; empty tokens are dropped.
type wordTokenizer struct{}

func (wordTokenizer) Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' {
			current.WriteRune(unicode.ToLower(r))
		} else if current.Len() > 0 {
			if w := strings.Trim(current.String(), "-"); w != "" {
				tokens = append(tokens, w)
			}
			current.Reset()
		}
	}
	if current.Len() > 0 {
		if w := strings.Trim(current.String(), "-"); w != "" {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// cjkTokenizer emits one token per ideographic character. Non-CJK runs
// embedded in CJK text fall back to whitespace splitting for that sub-run.
type cjkTokenizer struct{}

func (cjkTokenizer) Tokenize(text string) []string {
	var tokens []string
	var run strings.Builder
	flush := func() {
		if run.Len() > 0 {
			tokens = append(tokens, strings.Fields(run.String())...)
			run.Reset()
		}
	}
	for _, r := range text {
		if isCJK(r) {
			flush()
			tokens = append(tokens, string(r))
		} else {
			run.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// arabicTokenizer splits on whitespace after stripping combining diacritic
// marks, so diacritic variants of the same word compare equal.
type arabicTokenizer struct{}

func (arabicTokenizer) Tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range norm.NFD.String(text) {
		if unicode.In(r, unicode.Mn) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Fields(b.String())
}

// defaultTokenizer splits on whitespace with no normalization; used when
// classification is inconclusive.
type defaultTokenizer struct{}

func (defaultTokenizer) Tokenize(text string) []string {
	return strings.Fields(text)
}
