package api

import (
	"encoding/json"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// The controllers need a human-readable message out of every failure, but
// transport failures (no usable response) and application failures (the
// backend answered with an error payload) are recoverable in different ways,
// so they stay distinct types.

// TransportError wraps a failure that happened before a usable HTTP response
// existed: DNS, connect, TLS, timeout, or an unreadable body.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Message returns the human-readable message shown to the user.
func (e *TransportError) Message() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "network error"
}

// APIError is a response the backend produced deliberately: a non-2xx status
// or a 2xx payload with success=false.
type APIError struct {
	StatusCode int
	// Msg is the best-effort message extracted from the error payload.
	Msg string
	// Body is the raw response body, kept for logging.
	Body []byte
}

func (e *APIError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Msg)
	}
	return fmt.Sprintf("api error (status %d)", e.StatusCode)
}

// Message returns the human-readable message shown to the user.
func (e *APIError) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// messagePaths are probed in order against the decoded error payload.
// Backends disagree on shape: {"message": "..."}, {"error": {"message": ...}},
// NestJS-style {"message": ["...", "..."], "error": "Bad Request"}.
var messagePaths = []string{"message", "error.message", "error"}

// extractMessage pulls a human-readable message out of an arbitrary JSON
// error payload. Returns "" when nothing usable is found.
func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		// Not JSON: a short plain-text body is its own message.
		text := strings.TrimSpace(string(body))
		if text != "" && len(text) <= 200 {
			return text
		}
		return ""
	}

	for _, path := range messagePaths {
		result, err := jmespath.Search(path, payload)
		if err != nil {
			continue
		}
		if msg := stringify(result); msg != "" {
			return msg
		}
	}
	return ""
}

// stringify flattens a probed value: strings pass through, string arrays
// (validation errors) join into one line.
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}
