package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"healthmate-hq/healthgate/pkg/prompt"
	"healthmate-hq/healthgate/pkg/upstream"
)

type stubCompleter struct {
	calls  int
	system string
	user   string
	result string
	err    error
}

func (s *stubCompleter) Complete(_ context.Context, system, user string) (string, error) {
	s.calls++
	s.system = system
	s.user = user
	return s.result, s.err
}

func newTestHandler(c Completer) *AssistHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAssistHandler(c, nil, logger)
}

func doAssist(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/assist", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var envelope map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return envelope
}

func TestAssistHandlerSuccess(t *testing.T) {
	completer := &stubCompleter{result: "Drink water and rest."}
	h := newTestHandler(completer)

	w := doAssist(t, h, `{"type":"health-tips","input":"daily tips please"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := decodeEnvelope(t, w)["result"]; got != "Drink water and rest." {
		t.Errorf("result = %q", got)
	}
	if completer.calls != 1 {
		t.Errorf("upstream calls = %d, want 1", completer.calls)
	}
	if completer.system != prompt.Resolve(prompt.HealthTips) {
		t.Errorf("system prompt does not match health-tips template")
	}
	if completer.user != "daily tips please" {
		t.Errorf("user message = %q", completer.user)
	}
}

func TestAssistHandlerUnknownTypeFallsBack(t *testing.T) {
	completer := &stubCompleter{result: "ok"}
	h := newTestHandler(completer)

	doAssist(t, h, `{"type":"astrology","input":"hello"}`)

	if completer.system != prompt.Resolve(prompt.SymptomCheck) {
		t.Error("unknown type should use the symptom-check prompt")
	}
}

func TestAssistHandlerAttachmentClause(t *testing.T) {
	completer := &stubCompleter{result: "ok"}
	h := newTestHandler(completer)

	doAssist(t, h, `{"type":"report-simplify","input":"CBC results","hasFile":true,"fileType":"application/pdf"}`)

	if !strings.HasPrefix(completer.user, "[PDF medical report uploaded]") {
		t.Errorf("user message missing PDF clause: %q", completer.user)
	}
	if !strings.HasSuffix(completer.user, "CBC results") {
		t.Errorf("user message missing input: %q", completer.user)
	}
}

func TestAssistHandlerValidationFailureSkipsUpstream(t *testing.T) {
	completer := &stubCompleter{result: "ok"}
	h := newTestHandler(completer)

	w := doAssist(t, h, `{"input":"   "}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := decodeEnvelope(t, w)["error"]; got != "Input cannot be empty" {
		t.Errorf("error = %q", got)
	}
	if completer.calls != 0 {
		t.Errorf("upstream calls = %d, want 0", completer.calls)
	}
}

func TestAssistHandlerMalformedJSON(t *testing.T) {
	completer := &stubCompleter{}
	h := newTestHandler(completer)

	w := doAssist(t, h, `{broken`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if got := decodeEnvelope(t, w)["error"]; got != "An unexpected error occurred. Please try again." {
		t.Errorf("error = %q", got)
	}
	if completer.calls != 0 {
		t.Errorf("upstream calls = %d, want 0", completer.calls)
	}
}

func TestAssistHandlerUpstreamErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "upstream rate limited",
			err:        &upstream.Error{StatusCode: http.StatusTooManyRequests},
			wantStatus: http.StatusTooManyRequests,
			wantError:  "AI service rate limit exceeded. Please try again later.",
		},
		{
			name:       "upstream credits exhausted",
			err:        &upstream.Error{StatusCode: http.StatusPaymentRequired},
			wantStatus: http.StatusPaymentRequired,
			wantError:  "AI service credits exhausted. Please try again later.",
		},
		{
			name:       "other upstream status",
			err:        &upstream.Error{StatusCode: http.StatusBadGateway},
			wantStatus: http.StatusInternalServerError,
			wantError:  "AI request failed with status 502",
		},
		{
			name:       "no credential",
			err:        upstream.ErrNoCredential,
			wantStatus: http.StatusInternalServerError,
			wantError:  "AI service is not configured",
		},
		{
			name:       "transport failure",
			err:        errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "An unexpected error occurred. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&stubCompleter{err: tt.err})
			w := doAssist(t, h, `{"input":"hello"}`)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := decodeEnvelope(t, w)["error"]; got != tt.wantError {
				t.Errorf("error = %q, want %q", got, tt.wantError)
			}
		})
	}
}

func TestAssistHandlerEmptyCompletion(t *testing.T) {
	h := newTestHandler(&stubCompleter{result: ""})
	w := doAssist(t, h, `{"input":"hello"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := decodeEnvelope(t, w)["result"]; got != NoResponseFallback {
		t.Errorf("result = %q, want %q", got, NoResponseFallback)
	}
}

func TestAssistHandlerRejectsGet(t *testing.T) {
	h := newTestHandler(&stubCompleter{})
	req := httptest.NewRequest(http.MethodGet, "/v1/assist", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
	if allow := w.Header().Get("Allow"); allow != "POST, OPTIONS" {
		t.Errorf("Allow = %q", allow)
	}
}

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	HealthHandler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := decodeEnvelope(t, w)["status"]; got != "ok" {
		t.Errorf("status field = %q, want ok", got)
	}
}
