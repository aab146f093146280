package fixpoint

import "sort"

// BuildContext produces the evaluation scope for one state snapshot.
//
// Every leaf value at nested path a.b.c is exposed under the flattened key
// a_b_c, and every original top-level key is exposed under its own name, so
// expressions can use either the flattened form (gpa_weighted) or nested
// property access (gpa.weighted). Arrays are leaves; they are not flattened
// into.
//
// On a collision between a flattened key and a top-level key, the top-level
// key wins. Flattening iterates keys in sorted order, so collisions between
// two flattened paths resolve deterministically. The input state is not
// modified; context values alias the state and must not be mutated.
//
// Builtin functions (now, uuid, math and string helpers) are not part of the
// returned map: they live in the evaluator's function namespace, which state
// keys cannot shadow and which cannot shadow state keys.
func BuildContext(state map[string]any) map[string]any {
	ctx := make(map[string]any, 2*len(state))
	flatten("", state, ctx)
	for k, v := range state {
		ctx[k] = v
	}
	return ctx
}

// flatten records every leaf of m in out under its underscore-joined path.
func flatten(prefix string, m map[string]any, out map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "_" + k
		}
		if child, ok := m[k].(map[string]any); ok {
			flatten(name, child, out)
			continue
		}
		out[name] = m[k]
	}
}
