package result

// Combine merges two results into a new one without mutating either input.
//
// Field rules:
//   - Tokens and Labels: first writer wins. The addition's value is used
//     only when the base's is empty, so the first adapter in a pipeline
//     defines the canonical tokenization and tagging scheme.
//   - Spans, Clusters, Roles: concatenated, base's entries first.
//     Duplicates are kept; different adapters may legitimately report
//     overlapping spans with different semantics.
//   - Multimodal scalars (image/audio features, embedding): base retained
//     when present, otherwise the addition's value.
//   - DetectedObjects and Captions: concatenated like spans.
func Combine(base, addition Result) Result {
	out := base.Clone()
	add := addition.Clone()

	if len(out.Tokens) == 0 {
		out.Tokens = add.Tokens
	}
	if len(out.Labels) == 0 {
		out.Labels = add.Labels
	}

	out.Spans = append(out.Spans, add.Spans...)
	out.Clusters = append(out.Clusters, add.Clusters...)
	out.Roles = append(out.Roles, add.Roles...)

	if len(out.ImageFeatures) == 0 {
		out.ImageFeatures = add.ImageFeatures
	}
	if len(out.AudioFeatures) == 0 {
		out.AudioFeatures = add.AudioFeatures
	}
	if len(out.Embedding) == 0 {
		out.Embedding = add.Embedding
	}
	out.DetectedObjects = append(out.DetectedObjects, add.DetectedObjects...)
	out.Captions = append(out.Captions, add.Captions...)

	return out
}
