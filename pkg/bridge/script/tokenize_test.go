package script

import (
	"reflect"
	"testing"
)

func TestWordTokenizer(t *testing.T) {
	tok := For(Latin)

	tokens := tok.Tokenize("The Quick, brown-fox jumps!")
	expected := []string{"the", "quick", "brown-fox", "jumps"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("Expected %v, got %v", expected, tokens)
	}
}

func TestWordTokenizerDropsEmpty(t *testing.T) {
	tok := For(Latin)

	if tokens := tok.Tokenize("... -- !!"); len(tokens) != 0 {
		t.Errorf("Punctuation-only input should yield no tokens, got %v", tokens)
	}
}

func TestCyrillicSharesWordTokenizer(t *testing.T) {
	tok := For(Cyrillic)

	tokens := tok.Tokenize("Привет, мир")
	expected := []string{"привет", "мир"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("Expected %v, got %v", expected, tokens)
	}
}

func TestCJKTokenizerSplitsCharacters(t *testing.T) {
	tok := For(CJK)

	tokens := tok.Tokenize("这是一个测试")
	if len(tokens) != 6 {
		t.Fatalf("Expected 6 single-character tokens, got %d: %v", len(tokens), tokens)
	}
	for _, token := range tokens {
		if len([]rune(token)) != 1 {
			t.Errorf("CJK token should be one character, got %q", token)
		}
	}
}

func TestCJKTokenizerMixedRuns(t *testing.T) {
	tok := For(CJK)

	tokens := tok.Tokenize("学习 deep learning 技术")
	expected := []string{"学", "习", "deep", "learning", "技", "术"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("Expected %v, got %v", expected, tokens)
	}
}

func TestArabicTokenizerStripsDiacritics(t *testing.T) {
	tok := For(Arabic)

	// The same word with and without diacritic marks must compare equal.
	plain := tok.Tokenize("كتب")
	marked := tok.Tokenize("كَتَبَ")
	if !reflect.DeepEqual(plain, marked) {
		t.Errorf("Diacritic variants should tokenize identically: %v vs %v", plain, marked)
	}
}

func TestDefaultTokenizer(t *testing.T) {
	tok := For(Default)

	tokens := tok.Tokenize("Keep CASE and.punct as-is")
	expected := []string{"Keep", "CASE", "and.punct", "as-is"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("Expected %v, got %v", expected, tokens)
	}
}
