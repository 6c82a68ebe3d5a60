package analysis

import (
	"fmt"

	"github.com/sddhantjaiii/Calling-agent-sub001/internal/literal"
)

// Outcome is the result of the whole analysis path for one envelope.
type Outcome struct {
	Located  bool
	Strategy string
	Result   *Result
	Errors   []string
	Warnings []string
}

// Analyze locates, parses, normalizes and validates the analysis literal.
// A missing literal is not a problem: the outcome is simply empty.
func Analyze(env map[string]any, strategies ...Strategy) Outcome {
	loc, ok := Locate(env, strategies...)
	if !ok {
		return Outcome{}
	}
	out := Outcome{Located: true, Strategy: loc.Strategy}

	parsed := literal.Parse(loc.Literal)
	for _, e := range parsed.Errors {
		out.Errors = append(out.Errors, fmt.Sprintf("analysis: parse error at %s", e.Error()))
	}

	res, f := Normalize(parsed.Dict)
	out.Errors = append(out.Errors, f.Errors...)
	out.Warnings = append(out.Warnings, f.Warnings...)
	if res == nil {
		return out
	}

	validated, warnings := Validate(*res)
	out.Warnings = append(out.Warnings, warnings...)
	out.Result = &validated
	return out
}
