// Package script classifies text into coarse writing-system families and
// provides per-script tokenization strategies used by the aligner.
package script

import "unicode"

// Tag identifies a writing-system family.
type Tag string

const (
	Latin    Tag = "latin"
	Cyrillic Tag = "cyrillic"
	CJK      Tag = "cjk"
	Arabic   Tag = "arabic"
	Default  Tag = "default"
)

// Classify scans the text and returns the tag of the dominant script
// bucket by character count. Ties break in a fixed priority order
// (cjk > arabic > cyrillic > latin) so the function is deterministic.
// Empty or unclassifiable input yields Default.
func Classify(text string) Tag {
	var cjk, arabic, cyrillic, latin int
	for _, r := range text {
		switch {
		case isCJK(r):
			cjk++
		case unicode.Is(unicode.Arabic, r):
			arabic++
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
		case unicode.Is(unicode.Latin, r):
			latin++
		}
	}

	best, tag := 0, Default
	for _, c := range []struct {
		n int
		t Tag
	}{{cjk, CJK}, {arabic, Arabic}, {cyrillic, Cyrillic}, {latin, Latin}} {
		if c.n > best {
			best, tag = c.n, c.t
		}
	}
	return tag
}

// isCJK covers the Han ideograph ranges plus kana and hangul, where text
// carries no whitespace word boundaries.
func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}
