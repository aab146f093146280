package cel

import (
	"fmt"
	"math"
	"time"

	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
)

// native converts a CEL evaluation result to a JSON-native Go value:
// nil, bool, int64, float64, string, []byte, []any or map[string]any.
// Timestamps and durations become strings, matching the state model where
// time only exists as ISO-8601 text.
func native(v ref.Val) (any, error) {
	switch v := v.(type) {
	case types.Bool:
		return bool(v), nil
	case types.Int:
		return int64(v), nil
	case types.Uint:
		if uint64(v) <= math.MaxInt64 {
			return int64(v), nil
		}
		return float64(v), nil
	case types.Double:
		return float64(v), nil
	case types.String:
		return string(v), nil
	case types.Bytes:
		return []byte(v), nil
	case types.Null:
		return nil, nil
	case types.Timestamp:
		return v.Value().(time.Time).UTC().Format(time.RFC3339), nil
	case types.Duration:
		return v.Value().(time.Duration).String(), nil
	}

	if lister, ok := v.(traits.Lister); ok {
		return nativeList(lister)
	}
	if mapper, ok := v.(traits.Mapper); ok {
		return nativeMap(mapper)
	}
	if err, ok := v.(*types.Err); ok {
		return nil, err
	}
	return nil, fmt.Errorf("cannot convert %v (%v) to a JSON-native value", v, v.Type())
}

func nativeList(l traits.Lister) (any, error) {
	out := []any{}
	it := l.Iterator()
	for it.HasNext() == types.True {
		elem, err := native(it.Next())
		if err != nil {
			return nil, err
		}
		out = append(out, elem)
	}
	return out, nil
}

func nativeMap(m traits.Mapper) (any, error) {
	out := map[string]any{}
	it := m.Iterator()
	for it.HasNext() == types.True {
		k := it.Next()
		v, found := m.Find(k)
		if !found {
			continue
		}
		key, err := native(k)
		if err != nil {
			return nil, err
		}
		val, err := native(v)
		if err != nil {
			return nil, err
		}
		out[fmt.Sprintf("%v", key)] = val
	}
	return out, nil
}
