// Error classification for LLM calls.
//
// Information Hiding:
// - Status code and message inspection hidden behind Classify
// - Retryability policy derived from the classified kind

package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrorKind categorizes a failed LLM call.
type ErrorKind int

const (
	// ErrUnknown is any failure that matched no other category.
	ErrUnknown ErrorKind = iota
	// ErrTimeout is a request or read timeout.
	ErrTimeout
	// ErrAuth is an invalid or expired API key (401).
	ErrAuth
	// ErrRateLimit is a request quota violation (429).
	ErrRateLimit
	// ErrServer is a provider-side failure (5xx).
	ErrServer
	// ErrConnection is a failure to reach the provider at all.
	ErrConnection
)

// String returns the kind's name.
func (k ErrorKind) String() string {
	switch k {
	case ErrTimeout:
		return "timeout"
	case ErrAuth:
		return "auth"
	case ErrRateLimit:
		return "rate_limit"
	case ErrServer:
		return "server_error"
	case ErrConnection:
		return "connection"
	default:
		return "unknown"
	}
}

// Retryable reports whether a call failing with this kind may be retried.
// Auth and connection failures will not resolve on their own; unknown
// failures are treated as permanent to avoid repeating a bad request.
func (k ErrorKind) Retryable() bool {
	switch k {
	case ErrTimeout, ErrRateLimit, ErrServer:
		return true
	default:
		return false
	}
}

// CallError is returned when an LLM call fails after the retry policy is
// exhausted (or immediately, for non-retryable kinds).
type CallError struct {
	Kind     ErrorKind
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *CallError) Error() string {
	return fmt.Sprintf("llm call failed (%s, %d attempt(s)): %v", e.Kind, e.Attempts, e.Err)
}

// Unwrap returns the underlying error.
func (e *CallError) Unwrap() error {
	return e.Err
}

// Classify maps an error from a provider into an ErrorKind.
// It is total: any input, including nil, yields a kind without panicking.
// Classification checks context errors first, then HTTP status codes from
// the go-openai error type, then message markers.
func Classify(err error) ErrorKind {
	if err == nil {
		return ErrUnknown
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if kind, ok := classifyStatus(apiErr.HTTPStatusCode); ok {
			return kind
		}
	}

	return classifyMessage(err.Error())
}

// classifyStatus maps an HTTP status code to an ErrorKind.
func classifyStatus(status int) (ErrorKind, bool) {
	switch {
	case status == 401 || status == 403:
		return ErrAuth, true
	case status == 408:
		return ErrTimeout, true
	case status == 429:
		return ErrRateLimit, true
	case status >= 500 && status <= 599:
		return ErrServer, true
	default:
		return ErrUnknown, false
	}
}

// Marker substrings checked in order; the first group that matches wins.
var (
	timeoutMarkers    = []string{"timeout", "timed out", "deadline exceeded"}
	authMarkers       = []string{"401", "unauthorized", "invalid api key", "incorrect api key"}
	rateLimitMarkers  = []string{"429", "rate limit", "too many requests"}
	serverMarkers     = []string{"500", "502", "503", "504", "internal server error", "bad gateway", "service unavailable"}
	connectionMarkers = []string{"connection refused", "connection reset", "no such host", "network is unreachable", "dial tcp"}
)

func classifyMessage(msg string) ErrorKind {
	msg = strings.ToLower(msg)

	groups := []struct {
		kind    ErrorKind
		markers []string
	}{
		{ErrTimeout, timeoutMarkers},
		{ErrAuth, authMarkers},
		{ErrRateLimit, rateLimitMarkers},
		{ErrServer, serverMarkers},
		{ErrConnection, connectionMarkers},
	}

	for _, g := range groups {
		for _, m := range g.markers {
			if strings.Contains(msg, m) {
				return g.kind
			}
		}
	}

	return ErrUnknown
}
