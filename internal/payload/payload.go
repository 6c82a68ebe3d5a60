// Package payload reads values out of decoded JSON objects without trusting
// their shape. Every accessor is total: a wrong type reads as "absent".
package payload

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Lookup follows path through nested objects.
func Lookup(m map[string]any, path ...string) (any, bool) {
	var cur any = m
	for _, key := range path {
		obj, ok := Object(cur)
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return cur, cur != nil
}

// Object asserts v is a JSON object.
func Object(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

// ObjectAt is Lookup followed by Object.
func ObjectAt(m map[string]any, path ...string) (map[string]any, bool) {
	v, ok := Lookup(m, path...)
	if !ok {
		return nil, false
	}
	return Object(v)
}

// String returns v as trimmed text. Numbers and booleans are rendered;
// empty strings read as absent.
func String(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case json.Number:
		s = t.String()
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case bool:
		s = strconv.FormatBool(t)
	default:
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// StringAt is Lookup followed by String.
func StringAt(m map[string]any, path ...string) (string, bool) {
	v, ok := Lookup(m, path...)
	if !ok {
		return "", false
	}
	return String(v)
}

// Number returns v as a finite float64. Numeric strings are accepted.
func Number(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// List asserts v is a JSON array.
func List(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

// SortedKeys returns the keys of m in lexical order, so scans over objects
// are deterministic.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
