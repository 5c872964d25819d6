package result

import (
	"encoding/json"
	"fmt"
	"math"

	"k8s.io/klog/v2"
)

// ToJSON converts the result to a JSON-serializable map. Only non-empty
// fields are included to keep output small; Tokens is always present.
// Non-serializable leaves (and non-finite floats) are coerced to their
// string form with a warning rather than failing the export.
func (r Result) ToJSON() map[string]any {
	out := map[string]any{"tokens": r.Tokens}
	if r.Tokens == nil {
		out["tokens"] = []string{}
	}

	if len(r.Spans) > 0 {
		spans := make([][2]int, len(r.Spans))
		for i, s := range r.Spans {
			spans[i] = [2]int{s.Start, s.End}
		}
		out["spans"] = spans
	}
	if len(r.Clusters) > 0 {
		clusters := make([][][2]int, len(r.Clusters))
		for i, c := range r.Clusters {
			cc := make([][2]int, len(c))
			for j, s := range c {
				cc[j] = [2]int{s.Start, s.End}
			}
			clusters[i] = cc
		}
		out["clusters"] = clusters
	}
	if len(r.Roles) > 0 {
		roles := make([]map[string]any, len(r.Roles))
		for i, role := range r.Roles {
			m := make(map[string]any, len(role))
			for k, v := range role {
				m[k] = sanitize(v, k)
			}
			roles[i] = m
		}
		out["roles"] = roles
	}
	if len(r.Labels) > 0 {
		out["labels"] = r.Labels
	}
	if len(r.ImageFeatures) > 0 {
		out["image_features"] = r.ImageFeatures
	}
	if len(r.AudioFeatures) > 0 {
		out["audio_features"] = r.AudioFeatures
	}
	if len(r.Embedding) > 0 {
		out["multimodal_embedding"] = r.Embedding
	}
	if len(r.DetectedObjects) > 0 {
		out["detected_objects"] = r.DetectedObjects
	}
	if len(r.Captions) > 0 {
		out["captions"] = r.Captions
	}
	return out
}

// MarshalJSON implements json.Marshaler using the ToJSON shape.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToJSON())
}

// sanitize returns v unchanged when it is a JSON-serializable leaf or a
// container of such, and its string form otherwise.
func sanitize(v any, key string) any {
	switch val := v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		json.Number:
		return val
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			klog.Warningf("coercing non-finite value for key %q to string", key)
			return fmt.Sprint(val)
		}
		return val
	case float32:
		return sanitize(float64(val), key)
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, inner := range val {
			m[k] = sanitize(inner, k)
		}
		return m
	case Role:
		return sanitize(map[string]any(val), key)
	case []any:
		s := make([]any, len(val))
		for i, inner := range val {
			s[i] = sanitize(inner, key)
		}
		return s
	case []string, []int, []float64:
		return val
	default:
		klog.Warningf("coercing non-serializable value for key %q to string", key)
		return fmt.Sprint(val)
	}
}
