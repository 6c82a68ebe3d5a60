package webhook

import (
	"github.com/sddhantjaiii/Calling-agent-sub001/internal/analysis"
)

// Normalize runs both paths over env and assembles the result. The only
// error is a nil envelope; everything wrong with the data ends up in the
// result's Errors or Warnings.
func Normalize(env Envelope) (NormalizedWebhook, error) {
	if env == nil {
		return NormalizedWebhook{}, ErrNilEnvelope
	}

	version := Detect(env)
	var structural []string
	if version == VersionUnrecognized {
		structural = append(structural, "envelope: unrecognized payload shape, using best-effort key scan")
	}
	md, mdWarnings := Extract(env, version)
	source, contact := Classify(md)

	return Assemble(Parts{
		Version:  version,
		Metadata: md,
		Source:   source,
		Contact:  contact,
		Warnings: append(structural, mdWarnings...),
		Analysis: analysis.Analyze(env),
	}), nil
}

// NormalizeBytes decodes body and normalizes it.
func NormalizeBytes(body []byte) (NormalizedWebhook, error) {
	env, err := Decode(body)
	if err != nil {
		return NormalizedWebhook{}, err
	}
	return Normalize(env)
}
