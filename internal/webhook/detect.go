package webhook

import "github.com/sddhantjaiii/Calling-agent-sub001/internal/payload"

// Detect picks the payload version from top-level key presence. The legacy
// shape wins when both are present.
func Detect(env Envelope) PayloadVersion {
	if _, ok := payload.ObjectAt(env, "conversation_initiation_client_data", "dynamic_variables"); ok {
		return VersionLegacyDynamicVars
	}
	if _, ok := payload.ObjectAt(env, "data", "metadata"); ok {
		return VersionDataWrapped
	}
	return VersionUnrecognized
}
