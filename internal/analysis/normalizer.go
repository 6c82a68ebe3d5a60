package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sddhantjaiii/Calling-agent-sub001/internal/literal"
)

// Findings accumulates problems in the order they are found.
type Findings struct {
	Errors   []string
	Warnings []string
}

func (f *Findings) errorf(format string, args ...any) {
	f.Errors = append(f.Errors, fmt.Sprintf(format, args...))
}

func (f *Findings) warnf(format string, args ...any) {
	f.Warnings = append(f.Warnings, fmt.Sprintf(format, args...))
}

// Normalize maps a parsed literal onto a Result. It returns nil when
// total_score or lead_status_tag cannot be resolved; each missing field is
// one error. Unknown keys are ignored.
func Normalize(d *literal.Dict) (*Result, Findings) {
	var f Findings
	var r Result

	total, totalOK := resolveTotal(d, &f)
	tag, tagOK := resolveTag(d)
	if !tagOK {
		f.errorf("analysis: %s is missing or empty", keyLeadStatusTag)
	}

	for _, c := range componentScores {
		v, key, ok := lookup(d, c.key, c.aliases...)
		if !ok || v.Kind == literal.KindNull {
			continue
		}
		n, ok := toScore(v)
		if !ok {
			f.warnf("analysis: %s value %q is not numeric, ignored", key, v.Text())
			continue
		}
		*c.field(&r) = &n
	}

	for _, c := range ctaFlags {
		v, ok := d.Get(c.key)
		if !ok || v.Kind == literal.KindNull {
			continue
		}
		b, ok := toFlag(v)
		if !ok {
			f.warnf("analysis: %s value %q is not yes/no, treated as no", c.key, v.Text())
			continue
		}
		*c.field(&r.CTA) = b
	}

	for _, l := range levelLabels {
		if v, ok := d.Get(l.key); ok && v.Kind != literal.KindNull {
			*l.field(&r.Levels) = strings.TrimSpace(v.Text())
		}
	}

	if v, ok := d.Get(keyReasoning); ok && v.Kind != literal.KindNull {
		r.Reasoning = strings.TrimSpace(v.Text())
	}

	if !totalOK || !tagOK {
		return nil, f
	}
	r.TotalScore = total
	r.LeadStatusTag = tag
	return &r, f
}

func resolveTotal(d *literal.Dict, f *Findings) (int, bool) {
	v, ok := d.Get(keyTotalScore)
	if !ok || v.Kind == literal.KindNull {
		f.errorf("analysis: %s is missing", keyTotalScore)
		return 0, false
	}
	n, ok := toScore(v)
	if !ok {
		f.errorf("analysis: %s value %q is not numeric", keyTotalScore, v.Text())
		return 0, false
	}
	return n, true
}

func resolveTag(d *literal.Dict) (string, bool) {
	v, ok := d.Get(keyLeadStatusTag)
	if !ok {
		return "", false
	}
	switch v.Kind {
	case literal.KindString, literal.KindNumber, literal.KindBool:
		s := strings.TrimSpace(v.Str)
		return s, s != ""
	default:
		return "", false
	}
}

func lookup(d *literal.Dict, key string, aliases ...string) (literal.Value, string, bool) {
	if v, ok := d.Get(key); ok {
		return v, key, true
	}
	for _, a := range aliases {
		if v, ok := d.Get(a); ok {
			return v, a, true
		}
	}
	return literal.Value{}, "", false
}

// scoreLimit keeps absurd values inside int range before clamping.
const scoreLimit = 1 << 30

// toScore coerces a number or numeric string, rounding to the nearest integer.
func toScore(v literal.Value) (int, bool) {
	var f float64
	switch v.Kind {
	case literal.KindNumber:
		f = v.Num
	case literal.KindString:
		s := strings.TrimSuffix(strings.TrimSpace(v.Str), "%")
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
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
	f = math.Max(-scoreLimit, math.Min(scoreLimit, math.Round(f)))
	return int(f), true
}

// toFlag accepts yes/no and true/false in any case, plus 1/0.
func toFlag(v literal.Value) (bool, bool) {
	switch v.Kind {
	case literal.KindBool:
		return v.Bool, true
	case literal.KindNumber:
		switch v.Num {
		case 1:
			return true, true
		case 0:
			return false, true
		}
		return false, false
	case literal.KindString:
		switch strings.ToLower(strings.TrimSpace(v.Str)) {
		case "yes", "y", "true":
			return true, true
		case "no", "n", "false", "":
			return false, true
		}
	}
	return false, false
}
