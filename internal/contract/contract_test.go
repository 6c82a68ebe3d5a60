package contract_test

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sddhantjaiii/Calling-agent-sub001/internal/contract"
	"github.com/sddhantjaiii/Calling-agent-sub001/internal/webhook"
)

const legacyBody = `{
  "conversation_initiation_client_data": {
    "dynamic_variables": {
      "system__conversation_id": "conv_1",
      "system__agent_id": "agent_1",
      "system__caller_id": "+14155551234",
      "system__call_duration_secs": 125,
      "system__time_utc": "2025-01-02T03:04:05Z",
      "system__call_type": "phone"
    }
  },
  "analysis": {
    "data_collection_results": {
      "default": {"value": "{'total_score': 150, 'lead_status_tag': 'Hot', 'intent_score': 2}"}
    }
  }
}`

func TestValidate_NormalizedOutputsSatisfySchema(t *testing.T) {
	for name, body := range map[string]string{
		"legacy":    legacyBody,
		"malformed": `{"some_random_field": "value"}`,
		"missing":   `{"analysis": {"data_collection_results": {"default": {"value": "{'lead_status_tag': 'Hot'}"}}}}`,
	} {
		t.Run(name, func(t *testing.T) {
			nw, err := webhook.NormalizeBytes([]byte(body))
			require.NoError(t, err)
			assert.NoError(t, contract.Validate(nw))
		})
	}
}

func TestValidate_RejectsInconsistentValidity(t *testing.T) {
	nw, err := webhook.NormalizeBytes([]byte(legacyBody))
	require.NoError(t, err)

	nw.IsValid = false
	err = contract.Validate(nw)
	require.Error(t, err)
	assert.True(t, eris.Is(err, contract.ErrContractViolation))
}

func TestValidate_RejectsOutOfRangeScore(t *testing.T) {
	err := contract.ValidateJSON([]byte(`{
		"version": "legacy_dynamic_vars", "source": "phone", "is_valid": true,
		"errors": [], "warnings": [],
		"metadata": {"conversation_id": "c", "agent_id": "a", "duration_seconds": 0, "duration_minutes": 0},
		"analysis": {"lead_status_tag": "Hot", "total_score": 101, "cta_interactions": {
			"pricing_clicked": false, "demo_clicked": false, "followup_clicked": false,
			"sample_clicked": false, "escalated_to_human": false}, "levels": {}}
	}`))
	assert.Error(t, err)
}

func TestDigest_IgnoresKeyOrderAndWhitespace(t *testing.T) {
	a, err := contract.Digest([]byte(`{"b": 1, "a": [1, 2]}`))
	require.NoError(t, err)
	b, err := contract.Digest([]byte(`{"a":[1,2],"b":1}`))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	_, err = contract.Digest([]byte(`{not json`))
	assert.Error(t, err)
}

func TestFingerprint_StableAcrossRuns(t *testing.T) {
	first, err := webhook.NormalizeBytes([]byte(legacyBody))
	require.NoError(t, err)
	second, err := webhook.NormalizeBytes([]byte(legacyBody))
	require.NoError(t, err)

	fa, err := contract.Fingerprint(first)
	require.NoError(t, err)
	fb, err := contract.Fingerprint(second)
	require.NoError(t, err)
	assert.Equal(t, fa, fb)
}

func TestSchema_IsCopy(t *testing.T) {
	s := contract.Schema()
	require.NotEmpty(t, s)
	s[0] = 'x'
	assert.NotEqual(t, byte('x'), contract.Schema()[0])
}
