package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestClassifyByMessage(t *testing.T) {
	cases := []struct {
		msg  string
		want ErrorKind
	}{
		{"request timed out after 30s", ErrTimeout},
		{"context deadline exceeded", ErrTimeout},
		{"401 Unauthorized", ErrAuth},
		{"Incorrect API key provided", ErrAuth},
		{"429 Too Many Requests", ErrRateLimit},
		{"rate limit reached for gpt-4o", ErrRateLimit},
		{"500 Internal Server Error", ErrServer},
		{"502 Bad Gateway", ErrServer},
		{"service unavailable", ErrServer},
		{"dial tcp 1.2.3.4:443: connection refused", ErrConnection},
		{"lookup api.example.com: no such host", ErrConnection},
		{"something completely different", ErrUnknown},
	}

	for _, tc := range cases {
		got := Classify(errors.New(tc.msg))
		if got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.msg, got, tc.want)
		}
	}
}

func TestClassifyNilAndContext(t *testing.T) {
	if got := Classify(nil); got != ErrUnknown {
		t.Errorf("Classify(nil) = %v, want unknown", got)
	}
	if got := Classify(context.DeadlineExceeded); got != ErrTimeout {
		t.Errorf("Classify(DeadlineExceeded) = %v, want timeout", got)
	}
	wrapped := fmt.Errorf("call failed: %w", context.DeadlineExceeded)
	if got := Classify(wrapped); got != ErrTimeout {
		t.Errorf("Classify(wrapped deadline) = %v, want timeout", got)
	}
}

func TestClassifyAPIErrorStatus(t *testing.T) {
	cases := []struct {
		status int
		want   ErrorKind
	}{
		{401, ErrAuth},
		{403, ErrAuth},
		{408, ErrTimeout},
		{429, ErrRateLimit},
		{500, ErrServer},
		{503, ErrServer},
	}

	for _, tc := range cases {
		err := &openai.APIError{HTTPStatusCode: tc.status, Message: "x"}
		if got := Classify(err); got != tc.want {
			t.Errorf("Classify(status %d) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestRetryable(t *testing.T) {
	retryable := []ErrorKind{ErrTimeout, ErrRateLimit, ErrServer}
	for _, k := range retryable {
		if !k.Retryable() {
			t.Errorf("%v should be retryable", k)
		}
	}

	permanent := []ErrorKind{ErrAuth, ErrConnection, ErrUnknown}
	for _, k := range permanent {
		if k.Retryable() {
			t.Errorf("%v should not be retryable", k)
		}
	}
}

func TestCallErrorUnwrap(t *testing.T) {
	underlying := errors.New("boom")
	err := &CallError{Kind: ErrServer, Attempts: 4, Err: underlying}

	if !errors.Is(err, underlying) {
		t.Error("CallError should unwrap to the underlying error")
	}

	var callErr *CallError
	if !errors.As(error(err), &callErr) {
		t.Error("errors.As should find *CallError")
	}
}

func TestErrorKindString(t *testing.T) {
	cases := map[ErrorKind]string{
		ErrUnknown:    "unknown",
		ErrTimeout:    "timeout",
		ErrAuth:       "auth",
		ErrRateLimit:  "rate_limit",
		ErrServer:     "server_error",
		ErrConnection: "connection",
	}
	for k, want := range cases {
		if k.String() != want {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), want)
		}
	}
}
