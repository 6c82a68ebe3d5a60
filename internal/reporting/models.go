package reporting

import "time"

// Common filtering inputs.

type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// LeadSummaryRequest requests aggregated lead analytics.
// AgentID is optional; empty means every agent.
type LeadSummaryRequest struct {
	AgentID string    `json:"agent_id,omitempty"`
	Range   TimeRange `json:"range"`
}

type LeadSummary struct {
	AgentID string    `json:"agent_id,omitempty"`
	Range   TimeRange `json:"range"`

	TotalCalls   int            `json:"total_calls"`
	ValidCalls   int            `json:"valid_calls"`
	InvalidCalls int            `json:"invalid_calls"`
	BySource     map[string]int `json:"by_source"`

	// AnalysedCalls counts calls that carried lead analysis; the tag counts
	// and AverageTotalScore are over those only.
	AnalysedCalls     int            `json:"analysed_calls"`
	ByLeadStatusTag   map[string]int `json:"by_lead_status_tag"`
	AverageTotalScore float64        `json:"average_total_score"`

	CTA CTACounts `json:"cta"`

	TotalDurationSeconds   int `json:"total_duration_seconds"`
	AverageDurationSeconds int `json:"average_duration_seconds"`

	// Truncated is set when the window held more than MaxCalls calls and
	// only the first MaxCalls were counted.
	Truncated bool `json:"truncated"`
}

type CTACounts struct {
	PricingClicked   int `json:"pricing_clicked"`
	DemoClicked      int `json:"demo_clicked"`
	FollowupClicked  int `json:"followup_clicked"`
	SampleClicked    int `json:"sample_clicked"`
	EscalatedToHuman int `json:"escalated_to_human"`
}
