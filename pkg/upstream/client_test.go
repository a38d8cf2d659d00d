package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"healthmate-hq/healthgate/pkg/secrets"
)

// stubCompletion is the upstream wire shape the client parses.
type stubCompletion struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func newStubServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string, creds secrets.Provider) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL:     baseURL,
		Model:       "google/gemini-2.5-flash",
		Credentials: creds,
	})
	if err != nil {
		t.Fatalf("NewClient(): %v", err)
	}
	return c
}

func TestCompleteReturnsFirstChoiceContent(t *testing.T) {
	var gotAuth string
	var gotBody struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}

		var resp stubCompletion
		resp.Choices = make([]struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		}, 1)
		resp.Choices[0].Message.Content = "Drink water and rest."
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	c := newTestClient(t, srv.URL+"/v1", secrets.Static("sk-test"))

	got, err := c.Complete(context.Background(), "system prompt", "user message")
	if err != nil {
		t.Fatalf("Complete(): %v", err)
	}
	if got != "Drink water and rest." {
		t.Errorf("Complete() = %q, want first choice content", got)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want Bearer sk-test", gotAuth)
	}
	if gotBody.Model != "google/gemini-2.5-flash" {
		t.Errorf("model = %q, want google/gemini-2.5-flash", gotBody.Model)
	}
	if len(gotBody.Messages) != 2 ||
		gotBody.Messages[0].Role != "system" || gotBody.Messages[0].Content != "system prompt" ||
		gotBody.Messages[1].Role != "user" || gotBody.Messages[1].Content != "user message" {
		t.Errorf("unexpected conversation: %+v", gotBody.Messages)
	}
}

func TestCompleteNoChoicesReturnsEmpty(t *testing.T) {
	srv := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	})

	c := newTestClient(t, srv.URL+"/v1", secrets.Static("sk-test"))

	got, err := c.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("Complete(): %v", err)
	}
	if got != "" {
		t.Errorf("Complete() = %q, want empty string for missing content", got)
	}
}

func TestCompleteClassifiesUpstreamStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{
			name:       "rate limited with provider error body",
			status:     http.StatusTooManyRequests,
			body:       `{"error": {"message": "rate limit reached", "type": "rate_limit_error"}}`,
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "credits exhausted with plain body",
			status:     http.StatusPaymentRequired,
			body:       `payment required`,
			wantStatus: http.StatusPaymentRequired,
		},
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       `{"error": {"message": "boom"}}`,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			c := newTestClient(t, srv.URL+"/v1", secrets.Static("sk-test"))

			_, err := c.Complete(context.Background(), "sys", "user")
			if err == nil {
				t.Fatal("Complete() should fail")
			}

			var uErr *Error
			if !errors.As(err, &uErr) {
				t.Fatalf("error %T is not *upstream.Error", err)
			}
			if uErr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", uErr.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestCompleteMissingCredential(t *testing.T) {
	srv := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called without a credential")
	})

	c := newTestClient(t, srv.URL+"/v1", secrets.Static(""))

	_, err := c.Complete(context.Background(), "sys", "user")
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("Complete() error = %v, want ErrNoCredential", err)
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("NewClient should fail without a credentials provider")
	}
}

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient(Config{Credentials: secrets.Static("k")})
	if err != nil {
		t.Fatalf("NewClient(): %v", err)
	}
	if c.Model() != DefaultModel {
		t.Errorf("Model() = %q, want %q", c.Model(), DefaultModel)
	}
}
