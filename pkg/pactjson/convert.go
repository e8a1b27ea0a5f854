package pactjson

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// From converts plain decoded data (the output of encoding/json or yaml.v3)
// into a Renderable. Renderable values are returned unchanged.
func From(v any) (Renderable, error) {
	switch t := v.(type) {
	case Renderable:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(t), nil
	case int32:
		return Int(t), nil
	case int64:
		return Int(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return Float(t), nil
		}
		return Int(t), nil
	case float32:
		return Float(t), nil
	case float64:
		if t == float64(int64(t)) {
			return Int(int64(t)), nil
		}
		return Float(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return Float(f), nil
	case []any:
		out := make(Array, 0, len(t))
		for i, item := range t {
			r, err := From(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out = append(out, r)
		}
		return out, nil
	case map[string]any:
		out := make(Object, len(t))
		for _, k := range sortedKeys(t) {
			r, err := From(t[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = r
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("null has no pact representation")
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}

// sortedKeys returns map keys in a stable order so error messages are deterministic.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
