package align

import (
	"math"
	"testing"

	"github.com/dcondrey/BridgeNLP/pkg/bridge/script"
)

func TestScoreIdentical(t *testing.T) {
	s := ScorerFor(script.Latin, 1, 1)

	score := s.Score([]string{"a", "b", "c"}, []string{"a", "b", "c"})
	if score != 1.0 {
		t.Errorf("Identical sequences should score 1.0, got %v", score)
	}
}

func TestScoreDisjoint(t *testing.T) {
	s := ScorerFor(script.Latin, 1, 1)

	score := s.Score([]string{"x", "y"}, []string{"a", "b"})
	if score != 0.0 {
		t.Errorf("Disjoint sequences should score 0.0, got %v", score)
	}
}

func TestScorePartialOverlap(t *testing.T) {
	s := ScorerFor(script.Latin, 1, 1)

	// Overlap 2/3, LCS 2/3 -> score 2/3.
	score := s.Score([]string{"buying", "a", "startup"}, []string{"buy", "a", "startup"})
	if math.Abs(score-2.0/3.0) > 1e-9 {
		t.Errorf("Expected 2/3, got %v", score)
	}
}

func TestScoreOrderMatters(t *testing.T) {
	s := ScorerFor(script.Latin, 1, 1)

	inOrder := s.Score([]string{"a", "b", "c"}, []string{"a", "b", "c"})
	reversed := s.Score([]string{"c", "b", "a"}, []string{"a", "b", "c"})
	if reversed >= inOrder {
		t.Errorf("Order-preserving candidate should outscore reversed: %v vs %v", inOrder, reversed)
	}
}

func TestScoreBounds(t *testing.T) {
	s := ScorerFor(script.Latin, 1, 1)

	// Candidate repeats target tokens; multiplicity must not push the
	// score above 1.
	score := s.Score([]string{"a", "a", "a", "a"}, []string{"a"})
	if score < 0 || score > 1 {
		t.Errorf("Score must stay in [0,1], got %v", score)
	}
}

func TestScoreEmpty(t *testing.T) {
	s := ScorerFor(script.Latin, 1, 1)

	if score := s.Score(nil, []string{"a"}); score != 0 {
		t.Errorf("Empty candidate should score 0, got %v", score)
	}
	if score := s.Score([]string{"a"}, nil); score != 0 {
		t.Errorf("Empty target should score 0, got %v", score)
	}
}

func TestScoreWeights(t *testing.T) {
	overlapOnly := ScorerFor(script.Latin, 1, 0)
	orderOnly := ScorerFor(script.Latin, 0, 1)

	// Same multiset, scrambled order: full overlap, partial LCS.
	candidate := []string{"c", "a", "b"}
	target := []string{"a", "b", "c"}
	if score := overlapOnly.Score(candidate, target); score != 1.0 {
		t.Errorf("Overlap-only score should be 1.0, got %v", score)
	}
	if score := orderOnly.Score(candidate, target); score >= 1.0 {
		t.Errorf("Order-only score should be below 1.0, got %v", score)
	}
}

func TestLCSLen(t *testing.T) {
	cases := []struct {
		a, b []string
		want int
	}{
		{[]string{"a", "b", "c"}, []string{"a", "c"}, 2},
		{[]string{"a", "b"}, []string{"b", "a"}, 1},
		{[]string{"x"}, []string{"y"}, 0},
		{nil, []string{"a"}, 0},
	}
	for _, c := range cases {
		if got := lcsLen(c.a, c.b); got != c.want {
			t.Errorf("lcsLen(%v, %v) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
