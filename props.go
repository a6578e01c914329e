package vignette

import (
	"fmt"
	"math"
)

// Props configures a component. Values come from Go callers or from Lua
// tables: numbers are float64 or int, lists are []any, tables are
// map[string]any.
type Props map[string]any

// String returns the string value for key, or def when absent.
func (p Props) String(key, def string) (string, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("prop %q: want string, got %T", key, v)
	}
	return s, nil
}

// Float returns the numeric value for key, or def when absent.
func (p Props) Float(key string, def float64) (float64, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return def, nil
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("prop %q: want number, got %T", key, v)
	}
	return f, nil
}

// Bool returns the boolean value for key, or def when absent.
func (p Props) Bool(key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("prop %q: want bool, got %T", key, v)
	}
	return b, nil
}

// List returns the list value for key, or nil when absent.
func (p Props) List(key string) ([]any, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch l := v.(type) {
	case []any:
		return l, nil
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, nil
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, nil
	case map[string]any:
		// An empty Lua table converts to a map.
		if len(l) == 0 {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("prop %q: want list, got %T", key, v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
