package fixpoint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// deepCopy copies a state value by round-tripping it through JSON, so the copy
// shares no structure with the original. Numbers are normalized (see
// normalizeValue) so that rule expressions see int64 for integral values.
// Fails if the state contains values JSON cannot represent.
func deepCopy(state map[string]any) (map[string]any, error) {
	if state == nil {
		return map[string]any{}, nil
	}
	b, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("state is not JSON-serializable: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("copying state: %w", err)
	}
	return normalizeValue(out).(map[string]any), nil
}

// normalizeValue walks a decoded JSON value and converts json.Number to int64
// when the number is integral, float64 otherwise. Maps and slices are
// normalized in place.
func normalizeValue(v any) any {
	switch v := v.(type) {
	case int:
		// YAML decodes integers as int; state numbers are int64.
		return int64(v)
	case json.Number:
		s := v.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := v.Int64(); err == nil {
				return i
			}
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return s
	case map[string]any:
		for k, e := range v {
			v[k] = normalizeValue(e)
		}
		return v
	case []any:
		for i, e := range v {
			v[i] = normalizeValue(e)
		}
		return v
	default:
		return v
	}
}

// copyValue returns a copy of a resolved assignment value that shares no
// structure with its source. Rule literals reach SetPath through here, so a
// later write to a sub-path mutates the state's copy, never the rule.
// Scalars are normalized the same way deepCopy normalizes them.
func copyValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = copyValue(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = copyValue(e)
		}
		return out
	default:
		return normalizeValue(v)
	}
}

// canonical returns a stable serialized form of the state, used for the
// sweep change check. encoding/json writes map keys in sorted order, which
// makes the output deterministic for structurally equal states.
func canonical(state map[string]any) string {
	b, err := json.Marshal(state)
	if err != nil {
		// Working state is always produced by deepCopy or by resolved
		// expression values, all JSON-native; reaching this means a
		// resolver produced something unexpected. Fall back to %#v so
		// the change check still terminates.
		return fmt.Sprintf("%#v", state)
	}
	return string(b)
}
