package fixpoint

import (
	"fmt"
	"strings"
)

// SetPath writes value at the dot-separated path inside state, creating
// intermediate maps as needed. An intermediate segment holding a non-map value
// is replaced with an empty map. The path must be non-empty and contain no
// empty segments.
func SetPath(state map[string]any, path string, value any) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}
	segments := strings.Split(path, ".")
	current := state
	for _, seg := range segments[:len(segments)-1] {
		if seg == "" {
			return fmt.Errorf("path %q contains an empty segment", path)
		}
		next, ok := current[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[seg] = next
		}
		current = next
	}
	last := segments[len(segments)-1]
	if last == "" {
		return fmt.Errorf("path %q contains an empty segment", path)
	}
	current[last] = value
	return nil
}
