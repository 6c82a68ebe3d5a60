package calls

import (
	"time"

	"github.com/sddhantjaiii/Calling-agent-sub001/internal/analysis"
	"github.com/sddhantjaiii/Calling-agent-sub001/internal/webhook"
)

// Call is one stored call-completion webhook.
//
// ConversationID is unique: the provider may deliver the same call more
// than once and only the first delivery is stored.
type Call struct {
	ID             string `json:"id" db:"id"`
	ConversationID string `json:"conversation_id" db:"conversation_id"`
	AgentID        string `json:"agent_id" db:"agent_id"`

	CallerID     *string `json:"caller_id,omitempty" db:"caller_id"`
	CalledNumber *string `json:"called_number,omitempty" db:"called_number"`

	Source       webhook.CallSource `json:"source" db:"source"`
	ContactPhone string             `json:"contact_phone,omitempty" db:"contact_phone"`
	ContactName  string             `json:"contact_name,omitempty" db:"contact_name"`
	ContactEmail string             `json:"contact_email,omitempty" db:"contact_email"`

	// DurationMinutes is whole minutes, rounded down.
	DurationSeconds int        `json:"duration_seconds" db:"duration_seconds"`
	DurationMinutes int        `json:"duration_minutes" db:"duration_minutes"`
	StartedAt       *time.Time `json:"started_at,omitempty" db:"started_at"`

	PayloadVersion webhook.PayloadVersion `json:"payload_version" db:"payload_version"`
	IsValid        bool                   `json:"is_valid" db:"is_valid"`
	Errors         []string               `json:"errors" db:"errors"`
	Warnings       []string               `json:"warnings" db:"warnings"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LeadAnalytics is the lead analysis stored next to a call.
type LeadAnalytics struct {
	CallID           string `json:"call_id" db:"call_id"`
	LeadStatusTag    string `json:"lead_status_tag" db:"lead_status_tag"`
	TotalScore       int    `json:"total_score" db:"total_score"`
	IntentScore      *int   `json:"intent_score,omitempty" db:"intent_score"`
	UrgencyScore     *int   `json:"urgency_score,omitempty" db:"urgency_score"`
	BudgetScore      *int   `json:"budget_score,omitempty" db:"budget_score"`
	FitScore         *int   `json:"fit_score,omitempty" db:"fit_score"`
	EngagementScore  *int   `json:"engagement_score,omitempty" db:"engagement_score"`
	Reasoning        string `json:"reasoning,omitempty" db:"reasoning"`
	AnalysisStrategy string `json:"analysis_strategy" db:"analysis_strategy"`

	CTAPricingClicked   bool `json:"cta_pricing_clicked" db:"cta_pricing_clicked"`
	CTADemoClicked      bool `json:"cta_demo_clicked" db:"cta_demo_clicked"`
	CTAFollowupClicked  bool `json:"cta_followup_clicked" db:"cta_followup_clicked"`
	CTASampleClicked    bool `json:"cta_sample_clicked" db:"cta_sample_clicked"`
	CTAEscalatedToHuman bool `json:"cta_escalated_to_human" db:"cta_escalated_to_human"`

	Levels analysis.Levels `json:"levels" db:"levels"`
}

// Record is a call with its lead analytics, when the webhook carried any.
type Record struct {
	Call Call           `json:"call"`
	Lead *LeadAnalytics `json:"lead,omitempty"`
}

// NewRecord maps a normalized webhook onto storage rows.
func NewRecord(nw webhook.NormalizedWebhook, id string, now time.Time) Record {
	md := nw.Metadata
	c := Call{
		ID:              id,
		ConversationID:  md.ConversationID,
		AgentID:         md.AgentID,
		CallerID:        md.CallerID,
		CalledNumber:    md.CalledNumber,
		Source:          nw.Source,
		DurationSeconds: md.DurationSeconds,
		DurationMinutes: md.Minutes(),
		StartedAt:       md.StartTime,
		PayloadVersion:  nw.Version,
		IsValid:         nw.IsValid,
		Errors:          nonNil(nw.Errors),
		Warnings:        nonNil(nw.Warnings),
		CreatedAt:       now,
	}
	if nw.Contact != nil {
		c.ContactPhone = nw.Contact.PhoneNumber
		c.ContactName = nw.Contact.Name
		c.ContactEmail = nw.Contact.Email
	}

	rec := Record{Call: c}
	if a := nw.Analysis; a != nil {
		rec.Lead = &LeadAnalytics{
			CallID:              id,
			LeadStatusTag:       a.LeadStatusTag,
			TotalScore:          a.TotalScore,
			IntentScore:         a.IntentScore,
			UrgencyScore:        a.UrgencyScore,
			BudgetScore:         a.BudgetScore,
			FitScore:            a.FitAlignmentScore,
			EngagementScore:     a.EngagementScore,
			Reasoning:           a.Reasoning,
			AnalysisStrategy:    nw.AnalysisStrategy,
			CTAPricingClicked:   a.CTA.PricingClicked,
			CTADemoClicked:      a.CTA.DemoClicked,
			CTAFollowupClicked:  a.CTA.FollowupClicked,
			CTASampleClicked:    a.CTA.SampleClicked,
			CTAEscalatedToHuman: a.CTA.EscalatedToHuman,
			Levels:              a.Levels,
		}
	}
	return rec
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
