package spacex

import (
	"math"
	"strconv"
	"strings"
)

// Document is a single JSON object returned by the SpaceX API.
//
// Documents are treated as immutable once decoded: the cache hands the same
// map to every reader, so callers must not modify it.
type Document map[string]any

// Lookup walks the document using dot notation and returns the value found.
//
// Object keys are matched exactly. A numeric segment indexes into an array,
// so "payloads.0.name" returns the name of the first payload. The second
// return value is false if any segment is missing or the value is null.
func (d Document) Lookup(path string) (any, bool) {
	if d == nil || path == "" {
		return nil, false
	}

	var current any = map[string]any(d)
	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, false
			}
			current = v
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}

	if current == nil {
		return nil, false
	}
	return current, true
}

// String returns the string at path. Non-string values report false.
func (d Document) String(path string) (string, bool) {
	v, ok := d.Lookup(path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Float returns the number at path.
//
// JSON numbers decode as float64. Quoted numbers are not numbers, matching
// the client's envelope check. NaN and infinities report false.
func (d Document) Float(path string) (float64, bool) {
	v, ok := d.Lookup(path)
	if !ok {
		return 0, false
	}

	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Bool returns the boolean at path. Non-boolean values report false.
func (d Document) Bool(path string) (bool, bool) {
	v, ok := d.Lookup(path)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}
