package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"healthmate-hq/healthgate/pkg/upstream"
)

// Client-facing error messages for upstream failures. Like the validation
// messages, the front-end displays these verbatim.
const (
	msgUpstreamRateLimited = "AI service rate limit exceeded. Please try again later."
	msgUpstreamNoCredits   = "AI service credits exhausted. Please try again later."
	msgNotConfigured       = "AI service is not configured"
	msgUnexpected          = "An unexpected error occurred. Please try again."
)

// statusMapping translates one upstream failure status to the status and
// message the gateway reports.
type statusMapping struct {
	upstreamStatus int
	status         int
	message        string
}

// statusMappings is checked in order; the first match wins.
var statusMappings = []statusMapping{
	{upstreamStatus: http.StatusTooManyRequests, status: http.StatusTooManyRequests, message: msgUpstreamRateLimited},
	{upstreamStatus: http.StatusPaymentRequired, status: http.StatusPaymentRequired, message: msgUpstreamNoCredits},
}

// mapUpstreamError translates an upstream error into the response status and
// message to report to the client.
func mapUpstreamError(err error) (int, string) {
	if errors.Is(err, upstream.ErrNoCredential) {
		return http.StatusInternalServerError, msgNotConfigured
	}

	var upErr *upstream.Error
	if errors.As(err, &upErr) {
		for _, m := range statusMappings {
			if upErr.StatusCode == m.upstreamStatus {
				return m.status, m.message
			}
		}
		if upErr.StatusCode > 0 {
			return http.StatusInternalServerError, fmt.Sprintf("AI request failed with status %d", upErr.StatusCode)
		}
	}

	return http.StatusInternalServerError, msgUnexpected
}
