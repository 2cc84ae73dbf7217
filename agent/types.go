// Package agent provides the tool-calling agent implementation.
//
// Contains all types used by the agent for tool calls and responses.
package agent

import (
	"github.com/liuqitech/codeagent/llm"
)

// ToolCallRecord captures metadata about one executed tool call.
type ToolCallRecord struct {
	Name       string
	InputSize  int
	OutputSize int
	DurationMs uint64
	Success    bool
}

// Metadata contains metadata about agent execution.
type Metadata struct {
	DurationMs uint64
	Rounds     int // Number of LLM calls made for this request
	ToolCalls  []ToolCallRecord
	TokenUsage *llm.TokenUsage
}

// ResponseType indicates the type of agent response.
type ResponseType int

const (
	ResponseSuccess ResponseType = iota
	ResponseFailure
)

// Response represents one completed Execute call.
type Response struct {
	Type      ResponseType
	Result    string // For Success: the model's final text
	Error     string // For Failure: user-facing description with guidance
	Reasoning string // Chain-of-thought text, when the model exposes it
	Metadata  Metadata
}

// NewSuccessResponse creates a successful response.
func NewSuccessResponse(result, reasoning string, meta Metadata) Response {
	return Response{
		Type:      ResponseSuccess,
		Result:    result,
		Reasoning: reasoning,
		Metadata:  meta,
	}
}

// NewFailureResponse creates a failure response.
func NewFailureResponse(err string, meta Metadata) Response {
	return Response{
		Type:     ResponseFailure,
		Error:    err,
		Metadata: meta,
	}
}

// ResultText returns the result string (for success) or error (for failure).
func (r Response) ResultText() string {
	if r.Type == ResponseSuccess {
		return r.Result
	}
	return r.Error
}

// IsSuccess checks if the response was successful.
func (r Response) IsSuccess() bool {
	return r.Type == ResponseSuccess
}
