// Package contract holds the JSON schema every NormalizedWebhook must satisfy
// and the canonical fingerprint used to recognise repeated deliveries.
package contract

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gowebpki/jcs"
	"github.com/kaptinlin/jsonschema"
	"github.com/rotisserie/eris"
)

//go:embed normalized_webhook.schema.json
var schemaJSON []byte

var ErrContractViolation = eris.New("contract: normalized webhook violates schema")

var compiled = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schema, err := compiler.Compile(schemaJSON)
	if err != nil {
		return nil, eris.Wrap(err, "contract: compile schema")
	}
	return schema, nil
})

// Schema returns the raw schema document.
func Schema() []byte {
	out := make([]byte, len(schemaJSON))
	copy(out, schemaJSON)
	return out
}

// Validate marshals v and checks it against the schema.
func Validate(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return eris.Wrap(err, "contract: marshal")
	}
	return ValidateJSON(data)
}

// ValidateJSON checks already-encoded JSON against the schema.
func ValidateJSON(data []byte) error {
	schema, err := compiled()
	if err != nil {
		return err
	}
	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	return eris.Wrap(ErrContractViolation, describe(result.Errors))
}

func describe[E any](errs map[string]E) string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, errs[k]))
	}
	return strings.Join(parts, "; ")
}

// Digest returns the sha256 hex digest of the RFC 8785 canonical form of raw.
// Two JSON documents that differ only in key order or whitespace share a digest.
func Digest(raw []byte) (string, error) {
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", eris.Wrap(err, "contract: canonicalize")
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Fingerprint is Digest over the JSON encoding of v.
func Fingerprint(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", eris.Wrap(err, "contract: marshal")
	}
	return Digest(data)
}
