// Package webhook turns a provider call-completion webhook into a
// NormalizedWebhook.
//
// Two paths run over the same envelope. Metadata: detect → extract →
// classify. Analysis: see package analysis. Both converge in assemble.
// Everything here except the HTTP handler is pure.
package webhook

import (
	"time"

	"github.com/sddhantjaiii/Calling-agent-sub001/internal/analysis"
)

type PayloadVersion string

const (
	VersionLegacyDynamicVars PayloadVersion = "legacy_dynamic_vars"
	VersionDataWrapped       PayloadVersion = "data_wrapped"
	VersionUnrecognized      PayloadVersion = "unrecognized"
)

type CallSource string

const (
	SourcePhone    CallSource = "phone"
	SourceInternet CallSource = "internet"
	SourceUnknown  CallSource = "unknown"
)

// CallMetadata is the version-agnostic view of the call itself.
type CallMetadata struct {
	ConversationID  string           `json:"conversation_id"`
	AgentID         string           `json:"agent_id"`
	CallerID        *string          `json:"caller_id,omitempty"`
	CalledNumber    *string          `json:"called_number,omitempty"`
	DurationSeconds int              `json:"duration_seconds"`
	DurationMinutes int              `json:"duration_minutes"`
	StartTime       *time.Time       `json:"start_time,omitempty"`
	CallTypeHint    string           `json:"call_type_hint,omitempty"`
	CallerName      string           `json:"caller_name,omitempty"`
	CallerEmail     string           `json:"caller_email,omitempty"`
	EventType       string           `json:"event_type,omitempty"`
	EventTimestamp  *time.Time       `json:"event_timestamp,omitempty"`
	Transcript      []TranscriptTurn `json:"transcript,omitempty"`
	Summary         *CallSummary     `json:"summary,omitempty"`
}

// Minutes returns the duration in whole minutes, rounded down.
func (m CallMetadata) Minutes() int {
	if m.DurationSeconds <= 0 {
		return 0
	}
	return m.DurationSeconds / 60
}

type TranscriptTurn struct {
	Role           string `json:"role"`
	Message        string `json:"message"`
	TimeInCallSecs int    `json:"time_in_call_secs"`
}

// CallSummary is the provider's own post-call summary.
type CallSummary struct {
	CallSuccessful    string `json:"call_successful,omitempty"`
	TranscriptSummary string `json:"transcript_summary,omitempty"`
	Title             string `json:"title,omitempty"`
}

// ContactInfo is only built when at least one field is known.
type ContactInfo struct {
	PhoneNumber string `json:"phone_number,omitempty"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
}

// NormalizedWebhook is the single artifact handed to collaborators.
// IsValid is true iff Errors is empty; warnings never affect it.
type NormalizedWebhook struct {
	Version          PayloadVersion   `json:"version"`
	Metadata         CallMetadata     `json:"metadata"`
	Source           CallSource       `json:"source"`
	Contact          *ContactInfo     `json:"contact,omitempty"`
	Analysis         *analysis.Result `json:"analysis,omitempty"`
	AnalysisStrategy string           `json:"analysis_strategy,omitempty"`
	IsValid          bool             `json:"is_valid"`
	Errors           []string         `json:"errors"`
	Warnings         []string         `json:"warnings"`
}
