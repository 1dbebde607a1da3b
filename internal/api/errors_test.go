package api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "flat message",
			body: `{"message": "invalid credentials"}`,
			want: "invalid credentials",
		},
		{
			name: "nested error message",
			body: `{"error": {"message": "token expired"}}`,
			want: "token expired",
		},
		{
			name: "error as string",
			body: `{"error": "forbidden"}`,
			want: "forbidden",
		},
		{
			name: "message array joins",
			body: `{"message": ["email must be an email", "password too short"], "error": "Bad Request"}`,
			want: "email must be an email; password too short",
		},
		{
			name: "message wins over error",
			body: `{"message": "primary", "error": "secondary"}`,
			want: "primary",
		},
		{
			name: "short plain text body",
			body: "Service Unavailable",
			want: "Service Unavailable",
		},
		{
			name: "empty body",
			body: "",
			want: "",
		},
		{
			name: "no usable field",
			body: `{"status": 500}`,
			want: "",
		},
		{
			name: "message is a number",
			body: `{"message": 42}`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractMessage([]byte(tt.body)))
		})
	}
}

func TestAPIErrorMessages(t *testing.T) {
	withMsg := &APIError{StatusCode: 401, Msg: "invalid credentials"}
	assert.Equal(t, "invalid credentials", withMsg.Message())
	assert.Equal(t, "api error (status 401): invalid credentials", withMsg.Error())

	bare := &APIError{StatusCode: 502}
	assert.Equal(t, "request failed with status 502", bare.Message())
	assert.Equal(t, "api error (status 502)", bare.Error())
}

func TestTransportErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &TransportError{Op: "GET talent/me", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "connection refused", err.Message())
	assert.Equal(t, "GET talent/me: connection refused", err.Error())
}
