package testutil

import (
	"encoding/json"
	"testing"
)

// volatileFields differ between runs and are dropped before comparison.
var volatileFields = map[string]bool{
	"id":        true,
	"runId":     true,
	"createdAt": true,
	"startedAt": true,
	"duration":  true,
	"elapsed":   true,
}

// Normalize deep-copies data through JSON and drops volatile fields.
func Normalize(t *testing.T, data any) any {
	t.Helper()

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Failed to marshal data for normalization: %v", err)
	}

	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		t.Fatalf("Failed to unmarshal data for normalization: %v", err)
	}
	return normalizeValue(normalized)
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if volatileFields[k] {
				continue
			}
			out[k] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

// MarshalNormalized normalizes data and marshals it to stable JSON bytes.
// encoding/json sorts map keys, so the output is canonical.
func MarshalNormalized(t *testing.T, data any) []byte {
	t.Helper()

	out, err := json.MarshalIndent(Normalize(t, data), "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal normalized data: %v", err)
	}
	return append(out, '\n')
}
