package result

// Span is a half-open token-index interval [Start, End) into a token
// sequence. Spans are immutable value pairs; copying one never aliases
// shared state.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of tokens the span covers.
func (s Span) Len() int { return s.End - s.Start }

// Valid reports whether the span is well formed for a sequence of n tokens.
func (s Span) Valid(n int) bool {
	return 0 <= s.Start && s.Start < s.End && s.End <= n
}

// Cluster is an ordered sequence of co-referring spans. Clusters may
// overlap each other; nothing relates one cluster to another.
type Cluster []Span

// Role is an open mapping from string keys to JSON-safe values. There is
// no fixed schema beyond "JSON-serializable leaves"; adapters put whatever
// task-specific fields they need here (label, score, text, ...).
type Role map[string]any

// Result is the unit of exchange between adapters and the pipeline: one
// token-indexed view of a model's output.
//
// Labels, when non-empty, is a parallel array over Tokens; callers must
// tolerate a shorter array rather than assume equal length.
type Result struct {
	Tokens   []string
	Spans    []Span
	Clusters []Cluster
	Roles    []Role
	Labels   []string

	// Multimodal extras. Core adapters never set these; the combiner
	// carries them through untouched when absent from one side.
	ImageFeatures   []float64
	AudioFeatures   []float64
	Embedding       []float64
	DetectedObjects []string
	Captions        []string
}

// New creates a Result over the given token texts.
func New(tokens []string) Result {
	return Result{Tokens: tokens}
}

// Empty reports whether the result carries no tokens and no annotations.
func (r Result) Empty() bool {
	return len(r.Tokens) == 0 && len(r.Spans) == 0 && len(r.Clusters) == 0 &&
		len(r.Roles) == 0 && len(r.Labels) == 0
}

// Clone returns a deep copy of the result. Clones are taken whenever a
// Result crosses a cache or condition-predicate boundary so that one
// caller's mutation cannot corrupt cached or in-flight state.
func (r Result) Clone() Result {
	out := Result{
		Tokens:          cloneStrings(r.Tokens),
		Labels:          cloneStrings(r.Labels),
		ImageFeatures:   cloneFloats(r.ImageFeatures),
		AudioFeatures:   cloneFloats(r.AudioFeatures),
		Embedding:       cloneFloats(r.Embedding),
		DetectedObjects: cloneStrings(r.DetectedObjects),
		Captions:        cloneStrings(r.Captions),
	}
	if r.Spans != nil {
		out.Spans = make([]Span, len(r.Spans))
		copy(out.Spans, r.Spans)
	}
	if r.Clusters != nil {
		out.Clusters = make([]Cluster, len(r.Clusters))
		for i, c := range r.Clusters {
			cc := make(Cluster, len(c))
			copy(cc, c)
			out.Clusters[i] = cc
		}
	}
	if r.Roles != nil {
		out.Roles = make([]Role, len(r.Roles))
		for i, role := range r.Roles {
			out.Roles[i] = cloneRole(role)
		}
	}
	return out
}

func cloneRole(role Role) Role {
	out := make(Role, len(role))
	for k, v := range role {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, inner := range val {
			m[k] = cloneValue(inner)
		}
		return m
	case Role:
		return cloneRole(val)
	case []any:
		s := make([]any, len(val))
		for i, inner := range val {
			s[i] = cloneValue(inner)
		}
		return s
	case []string:
		return cloneStrings(val)
	case []float64:
		return cloneFloats(val)
	default:
		return v
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneFloats(s []float64) []float64 {
	if s == nil {
		return nil
	}
	out := make([]float64, len(s))
	copy(out, s)
	return out
}
