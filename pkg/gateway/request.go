package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxInputLength is the maximum accepted input length in characters,
// measured after trimming.
const MaxInputLength = 5000

// Validation messages returned to clients. The web front-end matches on
// these strings, so they are part of the API surface.
const (
	msgInvalidInput = "Invalid input: must be a non-empty string"
	msgEmptyInput   = "Input cannot be empty"
	msgInputTooLong = "Input exceeds maximum length of 5000 characters"
)

// tagPattern strips HTML/XML-style tags from user input before it is
// forwarded upstream. Intentionally narrow: everything except angle-bracket
// tags passes through untouched.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// AssistRequest is the request body accepted by the assist endpoint.
type AssistRequest struct {
	// Type selects the assistance category. Unknown or missing values fall
	// back to the general symptom-check prompt.
	Type string `json:"type"`

	// Input is the user's free-text message. Required.
	Input string `json:"input"`

	// HasFile indicates the user attached a medical report on the
	// front-end. The file itself never reaches the gateway; only extracted
	// text arrives via Input.
	HasFile bool `json:"hasFile"`

	// FileType is the attachment kind when HasFile is set: "image" or "pdf".
	FileType string `json:"fileType"`
}

// RequestError is a client-caused request failure. The message is returned
// verbatim in the error envelope.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string { return e.Message }

// ParseAssistRequest decodes and validates an assist request body.
//
// A type mismatch on the input field (e.g. a number instead of a string)
// reports the same validation message as a missing input, because from the
// client's perspective both are "not a non-empty string". Any other decode
// failure is returned as-is and surfaces as an internal error, matching the
// historical behavior where malformed JSON blew up before validation ran.
func ParseAssistRequest(body io.Reader) (*AssistRequest, error) {
	var req AssistRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "input" {
			return nil, &RequestError{Message: msgInvalidInput}
		}
		return nil, err
	}

	if req.Input == "" {
		return nil, &RequestError{Message: msgInvalidInput}
	}

	trimmed := strings.TrimSpace(req.Input)
	if trimmed == "" {
		return nil, &RequestError{Message: msgEmptyInput}
	}
	if utf8.RuneCountInString(trimmed) > MaxInputLength {
		return nil, &RequestError{Message: msgInputTooLong}
	}

	req.Input = sanitize(trimmed)
	return &req, nil
}

// sanitize removes tag-like sequences and trims the result again, since
// stripping a tag can expose surrounding whitespace.
func sanitize(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}
