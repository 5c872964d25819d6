package document

import (
	"strings"
	"unicode"

	"github.com/oklog/ulid/v2"
)

// Token is one unit of a canonical token sequence: its text plus the
// half-open rune-offset interval [Start, End) into the source text.
type Token struct {
	Text  string
	Start int
	End   int
}

// Document is the canonical-document collaborator contract. It owns the
// authoritative token sequence and character offsets that every adapter
// in a pipeline annotates; the aligner only reads it.
type Document interface {
	// ID identifies the document for caching and for the annotation
	// side-table. Implementations should return a stable non-empty value.
	ID() string
	Text() string
	Tokens() []Token
}

// Doc is the built-in Document implementation.
type Doc struct {
	id     string
	text   string
	tokens []Token
}

// New tokenizes text on Unicode whitespace and wraps it as a document.
// Offsets are rune offsets into the original text.
func New(text string) *Doc {
	return &Doc{
		id:     ulid.Make().String(),
		text:   text,
		tokens: Tokenize(text),
	}
}

// FromTokens builds a document from pre-tokenized text. The source text is
// reconstructed by joining tokens with single spaces, which fixes the
// offset of each token deterministically.
func FromTokens(tokens []string) *Doc {
	var b strings.Builder
	out := make([]Token, 0, len(tokens))
	pos := 0
	for i, t := range tokens {
		if i > 0 {
			b.WriteByte(' ')
			pos++
		}
		b.WriteString(t)
		n := len([]rune(t))
		out = append(out, Token{Text: t, Start: pos, End: pos + n})
		pos += n
	}
	return &Doc{id: ulid.Make().String(), text: b.String(), tokens: out}
}

// FromTokensWithOffsets builds a document over externally tokenized text,
// keeping the caller's offsets.
func FromTokensWithOffsets(text string, tokens []Token) *Doc {
	return &Doc{id: ulid.Make().String(), text: text, tokens: tokens}
}

func (d *Doc) ID() string   { return d.id }
func (d *Doc) Text() string { return d.text }

// Tokens returns the canonical token sequence. The returned slice is
// shared; callers must not mutate it.
func (d *Doc) Tokens() []Token { return d.tokens }

// TokenTexts returns just the token strings, in order.
func (d *Doc) TokenTexts() []string {
	out := make([]string, len(d.tokens))
	for i, t := range d.tokens {
		out[i] = t.Text
	}
	return out
}

// Tokenize splits text on Unicode whitespace, recording the rune-offset
// interval of each token.
func Tokenize(text string) []Token {
	var tokens []Token
	start := -1
	pos := 0
	var current strings.Builder
	for _, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, Token{Text: current.String(), Start: start, End: pos})
				current.Reset()
				start = -1
			}
		} else {
			if start < 0 {
				start = pos
			}
			current.WriteRune(r)
		}
		pos++
	}
	if start >= 0 {
		tokens = append(tokens, Token{Text: current.String(), Start: start, End: pos})
	}
	return tokens
}
