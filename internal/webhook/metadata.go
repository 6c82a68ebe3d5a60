package webhook

import (
	"fmt"
	"math"
	"time"

	"github.com/sddhantjaiii/Calling-agent-sub001/internal/payload"
)

// Extract reads CallMetadata for the given version. It never fails; values
// it cannot read are left at their zero value and reported as warnings.
func Extract(env Envelope, version PayloadVersion) (CallMetadata, []string) {
	x := &extractor{}
	switch version {
	case VersionLegacyDynamicVars:
		x.legacy(env)
	case VersionDataWrapped:
		x.dataWrapped(env)
	default:
		x.scan(env)
	}
	if x.md.ConversationID == "" {
		x.warnf("metadata: conversation_id not found")
	}
	x.md.DurationMinutes = x.md.Minutes()
	return x.md, x.warnings
}

type extractor struct {
	md          CallMetadata
	durationSet bool
	warnings    []string
}

func (x *extractor) warnf(format string, args ...any) {
	x.warnings = append(x.warnings, fmt.Sprintf(format, args...))
}

func (x *extractor) legacy(env Envelope) {
	dv, _ := payload.ObjectAt(env, "conversation_initiation_client_data", "dynamic_variables")
	x.dynamicVars(dv)
	x.str(&x.md.ConversationID, env, "conversation_id")
	x.str(&x.md.AgentID, env, "agent_id")
	x.transcript(env["transcript"])
	x.summary(env)
	x.event(env)
}

func (x *extractor) dataWrapped(env Envelope) {
	data, _ := payload.ObjectAt(env, "data")
	meta, _ := payload.ObjectAt(data, "metadata")
	phoneCall, _ := payload.ObjectAt(meta, "phone_call")

	x.str(&x.md.ConversationID, data, "conversation_id")
	x.str(&x.md.AgentID, data, "agent_id")
	x.duration(meta, "call_duration_secs")
	x.optional(&x.md.CallerID, meta, "phone_number")
	x.optional(&x.md.CallerID, phoneCall, "external_number")
	x.optional(&x.md.CalledNumber, phoneCall, "agent_number")
	x.timestamp(&x.md.StartTime, meta, "start_time_unix_secs")

	dv, _ := payload.ObjectAt(data, "conversation_initiation_client_data", "dynamic_variables")
	x.dynamicVars(dv)
	x.str(&x.md.CallTypeHint, phoneCall, "type")

	x.transcript(data["transcript"])
	x.summary(data)
	x.event(env)
}

// dynamicVars fills gaps from the provider's system__ variables and the
// caller identity variables set by the agent.
func (x *extractor) dynamicVars(dv map[string]any) {
	x.str(&x.md.ConversationID, dv, "system__conversation_id")
	x.str(&x.md.AgentID, dv, "system__agent_id")
	x.optional(&x.md.CallerID, dv, "system__caller_id")
	x.optional(&x.md.CalledNumber, dv, "system__called_number")
	x.duration(dv, "system__call_duration_secs")
	x.timestamp(&x.md.StartTime, dv, "system__time_utc")
	x.str(&x.md.CallTypeHint, dv, "system__call_type")
	x.str(&x.md.CallerName, dv, "name", "user_name", "customer_name")
	x.str(&x.md.CallerEmail, dv, "email", "user_email", "customer_email")
}

// scan is the best-effort path for unrecognized envelopes. Only the top two
// levels are searched; at each level keys are visited in sorted order and the
// shallower occurrence of a key wins.
func (x *extractor) scan(env Envelope) {
	flat := map[string]any{}
	keys := payload.SortedKeys(env)
	for _, k := range keys {
		flat[k] = env[k]
	}
	for _, k := range keys {
		child, ok := payload.Object(env[k])
		if !ok {
			continue
		}
		for _, ck := range payload.SortedKeys(child) {
			if _, seen := flat[ck]; !seen {
				flat[ck] = child[ck]
			}
		}
	}

	x.str(&x.md.ConversationID, flat, "conversation_id", "system__conversation_id", "call_id")
	x.str(&x.md.AgentID, flat, "agent_id", "system__agent_id")
	x.optional(&x.md.CallerID, flat, "caller_id", "system__caller_id", "phone_number", "from_number")
	x.optional(&x.md.CalledNumber, flat, "called_number", "system__called_number", "agent_number", "to_number")
	x.duration(flat, "call_duration_secs", "system__call_duration_secs", "duration_seconds")
	x.timestamp(&x.md.StartTime, flat, "start_time_unix_secs", "system__time_utc", "start_time")
	x.str(&x.md.CallTypeHint, flat, "call_type", "system__call_type")
	x.str(&x.md.CallerName, flat, "name", "user_name", "customer_name", "caller_name")
	x.str(&x.md.CallerEmail, flat, "email", "user_email", "customer_email", "caller_email")
}

func first(m map[string]any, keys ...string) (any, string, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, k, true
		}
	}
	return nil, "", false
}

func (x *extractor) str(dst *string, m map[string]any, keys ...string) {
	if *dst != "" {
		return
	}
	for _, k := range keys {
		if s, ok := payload.String(m[k]); ok {
			*dst = s
			return
		}
	}
}

func (x *extractor) optional(dst **string, m map[string]any, keys ...string) {
	if *dst != nil {
		return
	}
	var s string
	x.str(&s, m, keys...)
	if s != "" {
		*dst = &s
	}
}

func (x *extractor) duration(m map[string]any, keys ...string) {
	if x.durationSet {
		return
	}
	v, key, ok := first(m, keys...)
	if !ok {
		return
	}
	x.durationSet = true
	f, ok := payload.Number(v)
	switch {
	case !ok:
		x.warnf("metadata: %s %v is not a number, using 0", key, v)
	case f < 0:
		x.warnf("metadata: %s %v is negative, using 0", key, v)
	default:
		x.md.DurationSeconds = int(math.Min(math.Floor(f), math.MaxInt32))
	}
}

func (x *extractor) timestamp(dst **time.Time, m map[string]any, keys ...string) {
	if *dst != nil {
		return
	}
	v, key, ok := first(m, keys...)
	if !ok {
		return
	}
	t, ok := parseTime(v)
	if !ok {
		x.warnf("metadata: %s %v is not a timestamp, ignored", key, v)
		return
	}
	*dst = &t
}

// parseTime accepts unix seconds (number or numeric string) or RFC 3339.
func parseTime(v any) (time.Time, bool) {
	if f, ok := payload.Number(v); ok {
		if f < 0 || f > math.MaxInt32*4 {
			return time.Time{}, false
		}
		return time.Unix(int64(f), 0).UTC(), true
	}
	s, ok := payload.String(v)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func (x *extractor) transcript(v any) {
	if v == nil {
		return
	}
	list, ok := payload.List(v)
	if !ok {
		x.warnf("metadata: transcript is not a list, ignored")
		return
	}
	for i, item := range list {
		turn, ok := payload.Object(item)
		if !ok {
			x.warnf("metadata: transcript entry %d is not an object, skipped", i)
			continue
		}
		var t TranscriptTurn
		t.Role, _ = payload.String(turn["role"])
		if msg, ok := turn["message"].(string); ok {
			t.Message = msg
		}
		if f, ok := payload.Number(turn["time_in_call_secs"]); ok && f > 0 {
			t.TimeInCallSecs = int(math.Min(f, math.MaxInt32))
		}
		x.md.Transcript = append(x.md.Transcript, t)
	}
}

// summary reads the provider's own analysis fields from m["analysis"].
func (x *extractor) summary(m map[string]any) {
	a, ok := payload.ObjectAt(m, "analysis")
	if !ok {
		return
	}
	var s CallSummary
	x.str(&s.CallSuccessful, a, "call_successful")
	x.str(&s.TranscriptSummary, a, "transcript_summary")
	x.str(&s.Title, a, "call_summary_title")
	if s != (CallSummary{}) {
		x.md.Summary = &s
	}
}

func (x *extractor) event(env Envelope) {
	x.str(&x.md.EventType, env, "type")
	x.timestamp(&x.md.EventTimestamp, env, "event_timestamp")
}
