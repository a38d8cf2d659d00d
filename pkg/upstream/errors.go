package upstream

import (
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNoCredential is returned when no API credential is configured.
// The caller surfaces this as a generic configuration failure; the detail
// stays in the server logs.
var ErrNoCredential = errors.New("upstream credential not configured")

// Error is a failed completion call. StatusCode carries the HTTP status
// the provider returned, or 0 for transport-level failures where no
// response was received.
type Error struct {
	// StatusCode is the upstream HTTP status, 0 if none.
	StatusCode int

	// Message is the provider's error message, if any.
	Message string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("upstream error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream error: %s", e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// classify converts a go-openai error into a typed upstream error,
// preserving the provider's HTTP status when one is available.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
			Cause:      err,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{
			StatusCode: reqErr.HTTPStatusCode,
			Message:    reqErr.Error(),
			Cause:      err,
		}
	}

	return &Error{
		Message: err.Error(),
		Cause:   err,
	}
}
