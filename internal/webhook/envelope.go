package webhook

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
)

// Envelope is the decoded webhook body. Numbers are kept as json.Number.
type Envelope map[string]any

var (
	ErrNilEnvelope = eris.New("webhook: nil envelope")
	ErrNotObject   = eris.New("webhook: body is not a JSON object")
	ErrInvalidJSON = eris.New("webhook: invalid JSON")
)

// Decode parses a webhook body. JSON null and non-object bodies are errors;
// every object, however odd its shape, decodes.
func Decode(body []byte) (Envelope, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, eris.Wrap(ErrInvalidJSON, err.Error())
	}
	if dec.More() {
		return nil, eris.Wrap(ErrInvalidJSON, "trailing data after top-level value")
	}

	switch t := v.(type) {
	case nil:
		return nil, ErrNilEnvelope
	case map[string]any:
		return Envelope(t), nil
	default:
		return nil, ErrNotObject
	}
}
