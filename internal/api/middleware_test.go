package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/istdurstig/istdurstig-server/internal/errors"
	"github.com/istdurstig/istdurstig-server/internal/logger"
)

func TestEnvelopeTransformer_AlwaysIncludesVersion(t *testing.T) {
	tests := []struct {
		name   string
		status string
		input  any
	}{
		{"success response", "200", map[string]string{"key": "value"}},
		{"created response", "201", map[string]string{"id": "123"}},
		{"no content response", "204", nil},
		{"plain error", "400", errors.New("invalid input")},
		{"coded error", "409", &APIError{Code: "CONFLICT", Message: "already shared"}},
		{"huma error model", "422", &huma.ErrorModel{Status: 422, Detail: "bad body"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := EnvelopeTransformer(nil, tt.status, tt.input)
			require.NoError(t, err)

			raw, err := json.Marshal(result)
			require.NoError(t, err)

			var envelope map[string]any
			require.NoError(t, json.Unmarshal(raw, &envelope))
			assert.Equal(t, float64(EnvelopeVersion), envelope["v"])
		})
	}
}

func TestEnvelopeTransformer_SuccessResponse(t *testing.T) {
	data := map[string]string{"name": "Monstera"}

	result, err := EnvelopeTransformer(nil, "200", data)
	require.NoError(t, err)

	envelope, ok := result.(APIEnvelope)
	require.True(t, ok)
	assert.True(t, envelope.Success)
	assert.Equal(t, data, envelope.Data)
	assert.Empty(t, envelope.Error)
}

func TestEnvelopeTransformer_PlainError(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "400", errors.New("validation failed"))
	require.NoError(t, err)

	envelope, ok := result.(APIEnvelope)
	require.True(t, ok)
	assert.False(t, envelope.Success)
	assert.Nil(t, envelope.Data)
	assert.Equal(t, "validation failed", envelope.Error)
}

func TestEnvelopeTransformer_CodedError(t *testing.T) {
	apiErr := &APIError{
		Code:    "INVALID_INPUT",
		Message: "validation failed",
		Details: map[string]string{"email": "is required"},
	}

	result, err := EnvelopeTransformer(nil, "400", apiErr)
	require.NoError(t, err)

	envelope, ok := result.(APIErrorEnvelope)
	require.True(t, ok)
	assert.False(t, envelope.Success)
	assert.Equal(t, "INVALID_INPUT", envelope.Code)
	assert.Equal(t, "validation failed", envelope.Message)
	assert.Equal(t, map[string]string{"email": "is required"}, envelope.Details)
}

func TestEnvelopeTransformer_PassesEnvelopesThrough(t *testing.T) {
	in := APIEnvelope{Version: EnvelopeVersion, Success: true, Data: "x"}

	result, err := EnvelopeTransformer(nil, "200", in)
	require.NoError(t, err)
	assert.Equal(t, in, result)
}

func TestStatusToCode(t *testing.T) {
	tests := map[int]string{
		http.StatusBadRequest:          "INVALID_INPUT",
		http.StatusUnprocessableEntity: "INVALID_INPUT",
		http.StatusUnauthorized:        "UNAUTHORIZED",
		http.StatusForbidden:           "ACCESS_DENIED",
		http.StatusNotFound:            "NOT_FOUND",
		http.StatusConflict:            "CONFLICT",
		http.StatusTooManyRequests:     "TOO_MANY_REQUESTS",
		http.StatusInternalServerError: "INTERNAL",
		http.StatusTeapot:              "INTERNAL",
	}
	for status, want := range tests {
		assert.Equal(t, want, statusToCode(status), "status %d", status)
	}
}

func TestFromDomain(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), domainerrors.AccessDenied("not a member"))

	apiErr := fromDomain(wrapped)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.GetStatus())
	assert.Equal(t, "ACCESS_DENIED", apiErr.Code)
	assert.Equal(t, "not a member", apiErr.Message)

	assert.Nil(t, fromDomain(errors.New("disk full")))
}

func TestAPIError_HidesUncodedErrors(t *testing.T) {
	var buf bytes.Buffer
	s := &Server{logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	err := s.apiError(t.Context(), errors.New("badger: disk full"))

	var statusErr huma.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.GetStatus())
	assert.NotContains(t, err.Error(), "disk full")
	assert.Contains(t, buf.String(), "badger: disk full")
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	var fromCtx *slog.Logger
	handler := middleware.RequestID(requestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = logger.FromContext(r.Context(), nil)
		w.WriteHeader(http.StatusNotFound)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plants/plant-x", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.NotNil(t, fromCtx, "handlers see the request logger")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), buf.String())
	assert.Equal(t, "request completed", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, "/api/v1/plants/plant-x", entry["path"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
}

func TestCORS(t *testing.T) {
	ts := setupTestServer(t, func(o *Options) {
		o.AllowedOrigins = []string{"https://app.example.com"}
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	ts.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "192.0.2.1", clientIP("192.0.2.1:1234"))
	assert.Equal(t, "::1", clientIP("[::1]:8080"))
	assert.Equal(t, "203.0.113.9", clientIP("203.0.113.9"))
}
