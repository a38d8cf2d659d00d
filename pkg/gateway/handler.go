package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"healthmate-hq/healthgate/pkg/prompt"
	"healthmate-hq/healthgate/pkg/telemetry/metrics"
)

// NoResponseFallback is returned when the upstream replies successfully but
// without any usable content.
const NoResponseFallback = "No response generated"

// Completer sends one system+user conversation upstream and returns the
// completion text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// AssistHandler serves the assist endpoint.
type AssistHandler struct {
	completer Completer
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewAssistHandler creates the assist handler. metrics may be nil.
func NewAssistHandler(completer Completer, m *metrics.Metrics, logger *slog.Logger) *AssistHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssistHandler{completer: completer, metrics: m, logger: logger}
}

// ServeHTTP handles one assist request: validate, resolve the category
// prompt, forward upstream, normalize the outcome.
func (h *AssistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST, OPTIONS")
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	start := time.Now()

	req, err := ParseAssistRequest(r.Body)
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			h.logger.WarnContext(r.Context(), "rejected assist request",
				"reason", reqErr.Message)
			h.record("invalid", http.StatusBadRequest, start)
			WriteError(w, http.StatusBadRequest, reqErr.Message)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to decode assist request",
			"error", err)
		h.record("invalid", http.StatusInternalServerError, start)
		WriteError(w, http.StatusInternalServerError, msgUnexpected)
		return
	}

	category := prompt.Normalize(req.Type)
	system := prompt.Resolve(category)
	user := prompt.UserMessage(req.Input, req.HasFile, req.FileType)

	h.logger.InfoContext(r.Context(), "forwarding assist request",
		"category", string(category),
		"input_length", len(req.Input),
		"has_file", req.HasFile)

	result, err := h.completer.Complete(r.Context(), system, user)
	if err != nil {
		status, message := mapUpstreamError(err)
		h.logger.ErrorContext(r.Context(), "upstream completion failed",
			"category", string(category),
			"status", status,
			"error", err)
		h.metrics.RecordUpstreamError(strconv.Itoa(status))
		h.record(string(category), status, start)
		WriteError(w, status, message)
		return
	}

	if result == "" {
		result = NoResponseFallback
	}

	h.record(string(category), http.StatusOK, start)
	WriteResult(w, result)
}

func (h *AssistHandler) record(category string, status int, start time.Time) {
	h.metrics.RecordRequest(category, strconv.Itoa(status), time.Since(start))
}
