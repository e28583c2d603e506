package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// EnvelopeVersion is the value of the "v" field in every response body.
// Clients reject envelopes with a version they do not know.
const EnvelopeVersion = 1

// APIEnvelope wraps successful responses, and simple errors that carry no code.
type APIEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// APIErrorEnvelope wraps coded errors.
type APIErrorEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps every response body in the versioned envelope.
// It ignores ctx so it can be called directly in tests.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case APIEnvelope, *APIEnvelope, APIErrorEnvelope, *APIErrorEnvelope:
		return v, nil
	case *APIError:
		return errorEnvelope(body.Code, body.Message, body.Details), nil
	case *huma.ErrorModel:
		return errorEnvelope(statusToCode(body.Status), body.Detail, body.Errors), nil
	case error:
		return errorEnvelope("", body.Error(), nil), nil
	}

	if code, err := strconv.Atoi(status); err == nil && code >= 400 {
		return APIEnvelope{Version: EnvelopeVersion, Success: false, Data: v}, nil
	}

	return APIEnvelope{Version: EnvelopeVersion, Success: true, Data: v}, nil
}

func errorEnvelope(code, message string, details any) any {
	if code == "" {
		return APIEnvelope{Version: EnvelopeVersion, Success: false, Error: message}
	}
	return APIErrorEnvelope{
		Version: EnvelopeVersion,
		Success: false,
		Code:    code,
		Message: message,
		Details: details,
	}
}
