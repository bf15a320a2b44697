package core

import (
	"encoding/json"
	"strconv"
	"strings"
)

// AsFloat reads a numeric value from common YAML/JSON decodings. Returns
// false when the value is not numeric.
func AsFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// AsInt reads an integer from common forms. Whole-valued floats count as
// integers because JSON round-trips erase the int/float distinction.
func AsInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case uint64:
		return int(t), true
	case float64:
		if t == float64(int(t)) {
			return int(t), true
		}
		return 0, false
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// AsBool reads a boolean. Only genuine booleans qualify; strings like "true"
// do not coerce.
func AsBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// AsString reads a string. Numeric and boolean values do not coerce.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// ParseAnyInt parses an integer from common forms including numeric strings.
// Returns false when unsupported.
func ParseAnyInt(v any) (int, bool) {
	if i, ok := AsInt(v); ok {
		return i, true
	}
	if s, ok := v.(string); ok {
		if strings.TrimSpace(s) == "" {
			return 0, false
		}
		if iv, err := strconv.Atoi(s); err == nil {
			return iv, true
		}
	}
	return 0, false
}
