package payload

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	m := map[string]any{
		"data": map[string]any{
			"metadata": map[string]any{"call_duration_secs": json.Number("42")},
			"nil":      nil,
		},
		"list": []any{1},
	}

	v, ok := Lookup(m, "data", "metadata", "call_duration_secs")
	assert.True(t, ok)
	assert.Equal(t, json.Number("42"), v)

	_, ok = Lookup(m, "data", "nil")
	assert.False(t, ok, "explicit null reads as absent")

	_, ok = Lookup(m, "list", "0")
	assert.False(t, ok)

	_, ok = Lookup(nil, "data")
	assert.False(t, ok)
}

func TestString(t *testing.T) {
	s, ok := String("  +14155551234 ")
	assert.True(t, ok)
	assert.Equal(t, "+14155551234", s)

	s, ok = String(json.Number("17"))
	assert.True(t, ok)
	assert.Equal(t, "17", s)

	_, ok = String("   ")
	assert.False(t, ok)

	_, ok = String(map[string]any{})
	assert.False(t, ok)
}

func TestNumber(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{json.Number("12.5"), 12.5, true},
		{float64(3), 3, true},
		{7, 7, true},
		{" 9 ", 9, true},
		{"abc", 0, false},
		{math.Inf(1), 0, false},
		{"NaN", 0, false},
		{true, 0, false},
		{nil, 0, false},
	}
	for _, c := range cases {
		got, ok := Number(c.in)
		assert.Equal(t, c.ok, ok, "input %v", c.in)
		if c.ok {
			assert.InDelta(t, c.want, got, 0.0001)
		}
	}
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]any{"c": 1, "a": 2, "b": 3}))
}
