package script

import "testing"

func TestClassifyCJK(t *testing.T) {
	if tag := Classify("这是一个测试"); tag != CJK {
		t.Errorf("Expected cjk, got %s", tag)
	}
	if tag := Classify("これはテストです"); tag != CJK {
		t.Errorf("Expected cjk for kana, got %s", tag)
	}
	if tag := Classify("한국어 테스트"); tag != CJK {
		t.Errorf("Expected cjk for hangul, got %s", tag)
	}
}

func TestClassifyLatin(t *testing.T) {
	if tag := Classify("plain english text"); tag != Latin {
		t.Errorf("Expected latin, got %s", tag)
	}
}

func TestClassifyCyrillic(t *testing.T) {
	if tag := Classify("русский текст"); tag != Cyrillic {
		t.Errorf("Expected cyrillic, got %s", tag)
	}
}

func TestClassifyArabic(t *testing.T) {
	if tag := Classify("نص عربي"); tag != Arabic {
		t.Errorf("Expected arabic, got %s", tag)
	}
}

func TestClassifyEmpty(t *testing.T) {
	if tag := Classify(""); tag != Default {
		t.Errorf("Empty input should classify as default, got %s", tag)
	}
	if tag := Classify("12345 !!!"); tag != Default {
		t.Errorf("Unclassifiable input should be default, got %s", tag)
	}
}

func TestClassifyDominant(t *testing.T) {
	// Mostly Latin with a couple of CJK characters.
	if tag := Classify("mostly english words 中文"); tag != Latin {
		t.Errorf("Expected latin to dominate, got %s", tag)
	}
}

func TestClassifyTieBreak(t *testing.T) {
	// One CJK character and one Latin character: cjk wins the tie.
	if tag := Classify("a中"); tag != CJK {
		t.Errorf("Tie should break toward cjk, got %s", tag)
	}
}
