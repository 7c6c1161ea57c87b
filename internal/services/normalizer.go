package services

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Normalize returns the canonical JSON value of a backend body. The backend
// sometimes serializes its payload as a JSON string holding the real object;
// such a string is unwrapped once. Any other JSON value is returned as is.
func Normalize(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.Wrap(ErrMalformedResponse, "empty body")
	}
	if !json.Valid(trimmed) {
		return nil, errors.Wrap(ErrMalformedResponse, "body is not valid JSON")
	}
	if trimmed[0] != '"' {
		return json.RawMessage(trimmed), nil
	}

	var encoded string
	if err := json.Unmarshal(trimmed, &encoded); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode string body"), ErrMalformedResponse)
	}
	inner := bytes.TrimSpace([]byte(encoded))
	if !json.Valid(inner) {
		return nil, errors.Wrap(ErrMalformedResponse, "string body does not hold valid JSON")
	}
	return json.RawMessage(inner), nil
}

// DecodeResponse decodes a body the dispatcher already normalized into v. It
// does not unwrap again: a doubly encoded string stays a string and fails to
// decode into an object. Missing fields keep their zero values and unknown
// fields are ignored.
func DecodeResponse(normalized json.RawMessage, v any) error {
	if len(bytes.TrimSpace(normalized)) == 0 {
		return errors.Wrap(ErrMalformedResponse, "empty payload")
	}
	if err := json.Unmarshal(normalized, v); err != nil {
		return errors.Mark(errors.Wrap(err, "decode payload"), ErrMalformedResponse)
	}
	return nil
}
