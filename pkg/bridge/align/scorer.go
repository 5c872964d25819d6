package align

import "github.com/dcondrey/BridgeNLP/pkg/bridge/script"

// Scorer computes a bounded similarity in [0,1] between a candidate token
// window and a target token sequence.
type Scorer interface {
	Score(candidate, target []string) float64
}

// ScorerFor returns the scoring strategy for a script tag. All scripts
// currently share the token scorer: overlap and order already operate on
// script-tokenized units, so CJK and Arabic reuse it rather than carrying
// dedicated scorers.
func ScorerFor(tag script.Tag, overlapWeight, orderWeight float64) Scorer {
	return tokenScorer{overlapWeight: overlapWeight, orderWeight: orderWeight}
}

// tokenScorer combines a multiset-overlap ratio with an order-preserving
// bonus. Overlap is the size of the token multiset intersection over the
// target multiset size; the bonus is the longest-common-subsequence length
// over the two sequences, normalized by target length. The two components
// are mixed by weight, equal by default.
type tokenScorer struct {
	overlapWeight float64
	orderWeight   float64
}

func (s tokenScorer) Score(candidate, target []string) float64 {
	if len(target) == 0 || len(candidate) == 0 {
		return 0
	}
	total := s.overlapWeight + s.orderWeight
	if total <= 0 {
		return 0
	}

	overlap := float64(multisetIntersection(candidate, target)) / float64(len(target))
	order := float64(lcsLen(candidate, target)) / float64(len(target))

	score := (s.overlapWeight*overlap + s.orderWeight*order) / total
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// multisetIntersection counts tokens shared between the two sequences,
// honoring multiplicity.
func multisetIntersection(candidate, target []string) int {
	counts := make(map[string]int, len(target))
	for _, t := range target {
		counts[t]++
	}
	n := 0
	for _, c := range candidate {
		if counts[c] > 0 {
			counts[c]--
			n++
		}
	}
	return n
}

// lcsLen computes the longest-common-subsequence length of the two token
// sequences with a rolling single-row table.
func lcsLen(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	row := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prev := 0
		for j := 1; j <= len(b); j++ {
			cur := row[j]
			if a[i-1] == b[j-1] {
				row[j] = prev + 1
			} else if row[j-1] > row[j] {
				row[j] = row[j-1]
			}
			prev = cur
		}
	}
	return row[len(b)]
}
