// Package analysis recovers the provider's lead-analysis result from the
// free-text literal embedded in a call-completion webhook.
//
// The path is Locate → literal.Parse → Normalize → Validate. Nothing in here
// returns a Go error for bad data; problems are collected as strings.
package analysis

// Result is the typed lead analysis. Component scores are nil when the
// provider did not score them, which is different from a score of zero.
type Result struct {
	LeadStatusTag     string          `json:"lead_status_tag"`
	TotalScore        int             `json:"total_score"`
	IntentScore       *int            `json:"intent_score,omitempty"`
	UrgencyScore      *int            `json:"urgency_score,omitempty"`
	BudgetScore       *int            `json:"budget_score,omitempty"`
	FitAlignmentScore *int            `json:"fit_alignment_score,omitempty"`
	EngagementScore   *int            `json:"engagement_score,omitempty"`
	Reasoning         string          `json:"reasoning,omitempty"`
	CTA               CTAInteractions `json:"cta_interactions"`
	Levels            Levels          `json:"levels"`
}

type CTAInteractions struct {
	PricingClicked   bool `json:"pricing_clicked"`
	DemoClicked      bool `json:"demo_clicked"`
	FollowupClicked  bool `json:"followup_clicked"`
	SampleClicked    bool `json:"sample_clicked"`
	EscalatedToHuman bool `json:"escalated_to_human"`
}

// Levels are the qualitative labels the provider emits next to each score.
type Levels struct {
	IntentLevel      string `json:"intent_level,omitempty"`
	UrgencyLevel     string `json:"urgency_level,omitempty"`
	BudgetConstraint string `json:"budget_constraint,omitempty"`
	FitAlignment     string `json:"fit_alignment,omitempty"`
	EngagementHealth string `json:"engagement_health,omitempty"`
}

// Range is an inclusive score interval.
type Range struct {
	Min, Max int
}

func (r Range) contains(v int) bool { return v >= r.Min && v <= r.Max }

func (r Range) clamp(v int) int {
	switch {
	case v < r.Min:
		return r.Min
	case v > r.Max:
		return r.Max
	default:
		return v
	}
}

var TotalScoreRange = Range{Min: 0, Max: 100}

const (
	TagHot  = "Hot"
	TagWarm = "Warm"
	TagCold = "Cold"
)

// LeadStatusTags is the known tag vocabulary.
var LeadStatusTags = []string{TagHot, TagWarm, TagCold}

const (
	keyTotalScore    = "total_score"
	keyLeadStatusTag = "lead_status_tag"
	keyReasoning     = "reasoning"
)

// componentScore describes one optional component score.
type componentScore struct {
	key     string
	aliases []string
	rng     Range
	field   func(*Result) **int
}

var componentScores = []componentScore{
	{key: "intent_score", rng: Range{0, 3}, field: func(r *Result) **int { return &r.IntentScore }},
	{key: "urgency_score", rng: Range{0, 3}, field: func(r *Result) **int { return &r.UrgencyScore }},
	{key: "budget_score", rng: Range{0, 3}, field: func(r *Result) **int { return &r.BudgetScore }},
	{key: "fit_score", aliases: []string{"fit_alignment_score"}, rng: Range{0, 3}, field: func(r *Result) **int { return &r.FitAlignmentScore }},
	{key: "engagement_score", rng: Range{0, 5}, field: func(r *Result) **int { return &r.EngagementScore }},
}

type ctaFlag struct {
	key   string
	field func(*CTAInteractions) *bool
}

var ctaFlags = []ctaFlag{
	{"cta_pricing_clicked", func(c *CTAInteractions) *bool { return &c.PricingClicked }},
	{"cta_demo_clicked", func(c *CTAInteractions) *bool { return &c.DemoClicked }},
	{"cta_followup_clicked", func(c *CTAInteractions) *bool { return &c.FollowupClicked }},
	{"cta_sample_clicked", func(c *CTAInteractions) *bool { return &c.SampleClicked }},
	{"cta_escalated_to_human", func(c *CTAInteractions) *bool { return &c.EscalatedToHuman }},
}

type levelLabel struct {
	key   string
	field func(*Levels) *string
}

var levelLabels = []levelLabel{
	{"intent_level", func(l *Levels) *string { return &l.IntentLevel }},
	{"urgency_level", func(l *Levels) *string { return &l.UrgencyLevel }},
	{"budget_constraint", func(l *Levels) *string { return &l.BudgetConstraint }},
	{"fit_alignment", func(l *Levels) *string { return &l.FitAlignment }},
	{"engagement_health", func(l *Levels) *string { return &l.EngagementHealth }},
}
