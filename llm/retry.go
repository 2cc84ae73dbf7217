// Retrying caller - wraps a provider call with bounded retry.
//
// Information Hiding:
// - Backoff schedule hidden
// - Retryability decision delegated to error classification

package llm

import (
	"context"
	"time"
)

// RetryPolicy configures retry behavior with exponential backoff.
type RetryPolicy struct {
	Attempts   int           // total attempts including the first
	BaseDelay  time.Duration // delay before the first retry
	Multiplier float64       // exponential backoff factor
	MaxDelay   time.Duration // cap on the delay between attempts
	OnRetry    func(kind ErrorKind, attempt int, delay time.Duration)
}

// DefaultRetryPolicy returns the standard policy: 4 total attempts with
// delays of 2s, 4s, 8s capped at 10s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:   4,
		BaseDelay:  2 * time.Second,
		Multiplier: 2,
		MaxDelay:   10 * time.Second,
	}
}

// Delay returns the backoff before retry n (1-indexed: the delay taken
// before the second attempt is Delay(1)).
func (p RetryPolicy) Delay(retry int) time.Duration {
	delay := float64(p.BaseDelay)
	for i := 1; i < retry; i++ {
		delay *= p.Multiplier
	}
	if max := float64(p.MaxDelay); delay > max {
		delay = max
	}
	return time.Duration(delay)
}

// Caller executes chat completions against a provider with automatic retry
// for transient failures. Auth, connection, and unclassified failures are
// surfaced immediately.
type Caller struct {
	provider Provider
	policy   RetryPolicy
}

// NewCaller creates a caller with the default retry policy.
func NewCaller(provider Provider) *Caller {
	return &Caller{provider: provider, policy: DefaultRetryPolicy()}
}

// NewCallerWithPolicy creates a caller with a custom retry policy.
func NewCallerWithPolicy(provider Provider, policy RetryPolicy) *Caller {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	return &Caller{provider: provider, policy: policy}
}

// Provider returns the underlying provider.
func (c *Caller) Provider() Provider {
	return c.provider
}

// Call sends one logical chat completion, retrying transient failures per
// the policy. On failure it returns *CallError carrying the classified kind
// and the last underlying error. Context cancellation aborts both the
// in-flight attempt and any pending backoff wait.
func (c *Caller) Call(ctx context.Context, messages []ChatMessage, tools []ToolDefinition) (LLMResponse, error) {
	var lastErr error
	var lastKind ErrorKind

	for attempt := 1; attempt <= c.policy.Attempts; attempt++ {
		if attempt > 1 {
			delay := c.policy.Delay(attempt - 1)
			if c.policy.OnRetry != nil {
				c.policy.OnRetry(lastKind, attempt, delay)
			}
			select {
			case <-ctx.Done():
				return LLMResponse{}, &CallError{Kind: Classify(ctx.Err()), Attempts: attempt - 1, Err: ctx.Err()}
			case <-time.After(delay):
			}
		}

		resp, err := c.chat(ctx, messages, tools)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		lastKind = Classify(err)

		if !lastKind.Retryable() {
			return LLMResponse{}, &CallError{Kind: lastKind, Attempts: attempt, Err: err}
		}
		if ctx.Err() != nil {
			return LLMResponse{}, &CallError{Kind: lastKind, Attempts: attempt, Err: err}
		}
	}

	return LLMResponse{}, &CallError{Kind: lastKind, Attempts: c.policy.Attempts, Err: lastErr}
}

func (c *Caller) chat(ctx context.Context, messages []ChatMessage, tools []ToolDefinition) (LLMResponse, error) {
	if len(tools) == 0 {
		return c.provider.Chat(ctx, messages)
	}
	return c.provider.ChatWithTools(ctx, messages, tools)
}

// StreamChat streams a completion without retry; streaming calls are not
// safely repeatable once chunks have been delivered.
func (c *Caller) StreamChat(ctx context.Context, messages []ChatMessage, chunks chan<- string) (*TokenUsage, error) {
	return c.provider.StreamChat(ctx, messages, chunks)
}
