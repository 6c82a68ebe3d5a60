package analysis

import (
	"fmt"
	"strings"
)

// Validate range-checks a candidate result. Out-of-range scores are clamped
// and an unknown tag is kept as is; both only produce warnings.
func Validate(r Result) (Result, []string) {
	var warnings []string

	if !TotalScoreRange.contains(r.TotalScore) {
		clamped := TotalScoreRange.clamp(r.TotalScore)
		warnings = append(warnings, rangeWarning(keyTotalScore, r.TotalScore, TotalScoreRange, clamped))
		r.TotalScore = clamped
	}

	for _, c := range componentScores {
		p := c.field(&r)
		if *p == nil || c.rng.contains(**p) {
			continue
		}
		clamped := c.rng.clamp(**p)
		warnings = append(warnings, rangeWarning(c.key, **p, c.rng, clamped))
		*p = &clamped
	}

	if !KnownTag(r.LeadStatusTag) {
		warnings = append(warnings, fmt.Sprintf("analysis: %s %q is not one of %s, kept as is",
			keyLeadStatusTag, r.LeadStatusTag, strings.Join(LeadStatusTags, "/")))
	}
	return r, warnings
}

// KnownTag matches tag against the vocabulary case-insensitively.
func KnownTag(tag string) bool {
	for _, t := range LeadStatusTags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func rangeWarning(key string, got int, rng Range, clamped int) string {
	return fmt.Sprintf("analysis: %s %d outside [%d,%d], clamped to %d", key, got, rng.Min, rng.Max, clamped)
}
