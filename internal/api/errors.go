package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/istdurstig/istdurstig-server/internal/errors"
	"github.com/istdurstig/istdurstig-server/internal/logger"
)

// codeTooManyRequests has no domain counterpart; only the rate limiter emits it.
const codeTooManyRequests = "TOO_MANY_REQUESTS"

// APIError is a custom error type that implements huma.StatusError.
// It maps domain errors to HTTP responses with consistent structure.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to use domain errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		var details []string
		for _, err := range errs {
			if err == nil {
				continue
			}

			if apiErr := fromDomain(err); apiErr != nil {
				return apiErr
			}

			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr
			}

			details = append(details, err.Error())
		}

		// Huma reports schema violations as 422; clients see them as bad input.
		if status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
		}

		apiErr := &APIError{
			status:  status,
			Code:    statusToCode(status),
			Message: message,
		}
		if len(details) > 0 {
			apiErr.Details = details
		}
		return apiErr
	}
}

// fromDomain converts a domain error to an APIError, or returns nil if err
// carries no domain code.
func fromDomain(err error) *APIError {
	var domainErr *domainerrors.Error
	if !errors.As(err, &domainErr) {
		return nil
	}
	return &APIError{
		status:  domainErr.HTTPStatus(),
		Code:    string(domainErr.Code),
		Message: domainErr.Message,
		Details: domainErr.Details,
	}
}

// apiError turns a service error into a huma.StatusError. Errors without a
// domain code are logged with the request logger and hidden behind a 500.
func (s *Server) apiError(ctx context.Context, err error) error {
	if apiErr := fromDomain(err); apiErr != nil {
		return apiErr
	}

	var statusErr huma.StatusError
	if errors.As(err, &statusErr) {
		return statusErr
	}

	logger.FromContext(ctx, s.logger).Error("request failed", "error", err)
	return huma.Error500InternalServerError("internal error")
}

// statusToCode maps HTTP status codes to our domain error codes.
func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return string(domainerrors.CodeInvalidInput)
	case http.StatusUnauthorized:
		return string(domainerrors.CodeUnauthorized)
	case http.StatusForbidden:
		return string(domainerrors.CodeAccessDenied)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeConflict)
	case http.StatusTooManyRequests:
		return codeTooManyRequests
	default:
		return string(domainerrors.CodeInternal)
	}
}
