package literal

import (
	"strconv"
	"strings"
)

// Kind identifies the shape of a parsed value.
type Kind uint8

const (
	KindString Kind = iota + 1
	KindNumber
	KindBool
	KindNull
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Value is a single raw value recovered from a literal.
//
// Str always holds the source text of scalar values (unquoted for quoted
// spans), so callers can fall back to it regardless of Kind.
type Value struct {
	Kind   Kind
	Str    string
	Num    float64
	Bool   bool
	Obj    *Dict
	Quoted bool
}

// StringValue returns a quoted string value.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s, Quoted: true} }

// NumberValue returns a numeric value.
func NumberValue(n float64) Value {
	return Value{Kind: KindNumber, Num: n, Str: strconv.FormatFloat(n, 'f', -1, 64)}
}

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b, Str: strconv.FormatBool(b)} }

// ObjectValue wraps a nested dictionary.
func ObjectValue(d *Dict) Value { return Value{Kind: KindObject, Obj: d} }

// Text renders the value as plain text. Objects render as "key: value" lines;
// objects nested deeper than MaxDepth render as "{...}".
func (v Value) Text() string { return v.text(0) }

func (v Value) text(depth int) string {
	if v.Kind != KindObject {
		return v.Str
	}
	if v.Obj == nil {
		return ""
	}
	if depth >= MaxDepth {
		return "{...}"
	}
	lines := make([]string, 0, v.Obj.Len())
	for _, k := range v.Obj.Keys() {
		child, _ := v.Obj.Get(k)
		lines = append(lines, k+": "+child.text(depth+1))
	}
	return strings.Join(lines, "\n")
}

// classifyBare maps an unquoted token onto a scalar value.
func classifyBare(s string) Value {
	switch strings.ToLower(s) {
	case "true":
		return Value{Kind: KindBool, Bool: true, Str: s}
	case "false":
		return Value{Kind: KindBool, Bool: false, Str: s}
	case "none", "null", "nil":
		return Value{Kind: KindNull, Str: s}
	}
	if looksNumeric(s) {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return Value{Kind: KindNumber, Num: n, Str: s}
		}
	}
	return Value{Kind: KindString, Str: s}
}

// looksNumeric rejects words ParseFloat would otherwise accept ("Inf", "NaN").
func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	if c == '-' || c == '+' || c == '.' {
		if len(s) == 1 {
			return false
		}
		c = s[1]
		if c == '.' && len(s) > 2 {
			c = s[2]
		}
	}
	return c >= '0' && c <= '9'
}

// Dict is an insertion-ordered string-keyed map.
type Dict struct {
	keys []string
	vals map[string]Value
}

func NewDict() *Dict {
	return &Dict{vals: map[string]Value{}}
}

// Set stores v under k. A repeated key keeps its first position and takes the new value.
func (d *Dict) Set(k string, v Value) {
	if _, ok := d.vals[k]; !ok {
		d.keys = append(d.keys, k)
	}
	d.vals[k] = v
}

func (d *Dict) Get(k string) (Value, bool) {
	if d == nil {
		return Value{}, false
	}
	v, ok := d.vals[k]
	return v, ok
}

// Keys returns the keys in first-seen order.
func (d *Dict) Keys() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}
