// Tool-calling loop implementation.
//
// All request handling goes through this module: the model decides which
// tools to run via native chat-completion tool calls, the loop executes them
// and feeds the results back, and the first tool-free reply ends the round
// trip.
//
// Information Hiding:
// - Loop internals hidden
// - LLM communication hidden behind the retrying caller
// - Tool execution coordination hidden
// - History management hidden

package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/liuqitech/codeagent/llm"
	"github.com/liuqitech/codeagent/storage"
	"github.com/liuqitech/codeagent/tools"
)

// DefaultMaxRounds bounds the number of model calls per request. A model
// stuck re-running tools gets cut off rather than spinning forever.
const DefaultMaxRounds = 25

// systemPrompt defines the agent's identity and working rules. Tool
// mechanics are not described here: the loop handles the call/result
// plumbing, so the prompt only has to say what the agent is for.
const systemPrompt = `You are a professional code generation assistant.

## Your capabilities
You can use the following tools to complete tasks:
- create_file: create a new code file with content
- read_file: read the content of an existing file
- list_directory: list the structure of a directory
- create_directory: create a new directory
- edit_file: replace a unique snippet in an existing file
- edit_file_all: replace every occurrence of a snippet in a file

## How to work
1. Analyze the user's request carefully.
2. To create a file, call create_file directly.
3. To understand existing code, inspect it first with read_file or list_directory.
4. To modify existing code, prefer edit_file over rewriting the whole file.
5. Based on tool results, decide the next step or give the final answer.

## Code quality
- Generated code should be clean, readable, and follow best practices.
- Include the comments a maintainer would need.
- Follow the conventions of the target language (PEP 8 for Python, gofmt for Go, ESLint defaults for JavaScript/TypeScript).

## Answering
- When done, briefly summarize what you did.
- If you created files, state their paths.
- If something went wrong, explain the cause and suggest a fix.`

// Agent turns natural-language requests into workspace file operations.
type Agent struct {
	caller   *llm.Caller
	registry *tools.Registry
	store    *storage.ConversationStore
	rounds   int
	verbose  bool
}

// New creates an agent from a provider, a tool registry, and a conversation
// store.
func New(provider llm.Provider, registry *tools.Registry, store *storage.ConversationStore) *Agent {
	return &Agent{
		caller:   llm.NewCaller(provider),
		registry: registry,
		store:    store,
		rounds:   DefaultMaxRounds,
	}
}

// WithRetryPolicy overrides the caller's retry policy.
func (a *Agent) WithRetryPolicy(policy llm.RetryPolicy) *Agent {
	a.caller = llm.NewCallerWithPolicy(a.caller.Provider(), policy)
	return a
}

// WithMaxRounds overrides the per-request round cap.
// A non-positive value keeps the default.
func (a *Agent) WithMaxRounds(rounds int) *Agent {
	if rounds > 0 {
		a.rounds = rounds
	}
	return a
}

// Verbose enables progress output (tool calls and round numbers).
func (a *Agent) Verbose(enabled bool) *Agent {
	a.verbose = enabled
	return a
}

// Registry returns the agent's tool registry.
func (a *Agent) Registry() *tools.Registry {
	return a.registry
}

// Execute handles one user request within a session. It always returns a
// Response; transport and model errors come back as failure responses with
// user-facing guidance, never as Go errors.
func (a *Agent) Execute(ctx context.Context, sessionID, text string) Response {
	startTime := time.Now()

	var meta Metadata
	var reasoning string
	defs := a.registry.Definitions()

	// Working conversation for this request: system prompt, the durable
	// window, then the new user turn. Tool traffic stays in this copy and
	// never enters the durable window.
	userMsg := llm.UserMessage(text)
	conversation := []llm.ChatMessage{llm.SystemMessage(systemPrompt)}
	conversation = append(conversation, a.store.History(sessionID)...)
	conversation = append(conversation, userMsg)

	// The user turn is recorded before the model is called, so a failed
	// turn still gives the next turn its context.
	a.store.Append(sessionID, userMsg)

	for round := 1; round <= a.rounds; round++ {
		if ctx.Err() != nil {
			meta.DurationMs = uint64(time.Since(startTime).Milliseconds())
			return NewFailureResponse(fmt.Sprintf("execution cancelled: %v", ctx.Err()), meta)
		}

		if a.verbose {
			fmt.Printf("[round %d/%d] calling model...\n", round, a.rounds)
		}

		resp, err := a.caller.Call(ctx, conversation, defs)
		if err != nil {
			meta.DurationMs = uint64(time.Since(startTime).Milliseconds())
			return NewFailureResponse(a.describeError(err), meta)
		}

		meta.Rounds++
		if resp.Usage != nil {
			if meta.TokenUsage == nil {
				meta.TokenUsage = &llm.TokenUsage{}
			}
			meta.TokenUsage.PromptTokens += resp.Usage.PromptTokens
			meta.TokenUsage.CompletionTokens += resp.Usage.CompletionTokens
			meta.TokenUsage.TotalTokens += resp.Usage.TotalTokens
		}
		if resp.Reasoning != "" {
			reasoning = resp.Reasoning
		}

		if !resp.HasToolCalls() {
			// Final answer. Only the assistant's text joins the user turn
			// in the durable window.
			a.store.Append(sessionID, llm.AssistantMessage(resp.Content))

			meta.DurationMs = uint64(time.Since(startTime).Milliseconds())
			return NewSuccessResponse(resp.Content, reasoning, meta)
		}

		// Tool round: echo the assistant turn with its calls, then run each
		// call in order and append its result.
		conversation = append(conversation, llm.ChatMessage{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, call := range resp.ToolCalls {
			record := a.runTool(ctx, call)
			meta.ToolCalls = append(meta.ToolCalls, record.record)
			conversation = append(conversation, llm.ToolMessage(call.ID, call.Name, record.output))
		}
	}

	meta.DurationMs = uint64(time.Since(startTime).Milliseconds())
	return NewFailureResponse(
		fmt.Sprintf("exceeded maximum tool-call rounds (%d); the task may be too complex for a single request", a.rounds),
		meta,
	)
}

// Clear discards a session's history and mints a fresh session ID.
func (a *Agent) Clear(sessionID string) string {
	a.store.Clear(sessionID)
	return storage.NewSessionID()
}

// HistorySize returns the number of durable messages in a session.
func (a *Agent) HistorySize(sessionID string) int {
	return a.store.Len(sessionID)
}

type toolOutcome struct {
	output string
	record ToolCallRecord
}

// runTool executes one tool call and captures its outcome. Failures become
// result text for the model; they never abort the loop.
func (a *Agent) runTool(ctx context.Context, call llm.ToolCall) toolOutcome {
	if a.verbose {
		fmt.Printf("  -> %s %s\n", call.Name, string(call.Arguments))
	}

	startTime := time.Now()
	result := a.registry.Dispatch(ctx, call.Name, call.Arguments)
	output := result.Text()

	if a.verbose && !result.Success() {
		fmt.Printf("  !! %s: %s\n", call.Name, output)
	}

	return toolOutcome{
		output: output,
		record: ToolCallRecord{
			Name:       call.Name,
			InputSize:  len(call.Arguments),
			OutputSize: len(output),
			DurationMs: uint64(time.Since(startTime).Milliseconds()),
			Success:    result.Success(),
		},
	}
}

// describeError converts a caller error into user-facing text.
func (a *Agent) describeError(err error) string {
	// Cancellation during a retry backoff surfaces as an unclassified
	// CallError wrapping context.Canceled; report it as a cancellation.
	if errors.Is(err, context.Canceled) {
		return fmt.Sprintf("execution cancelled: %v", context.Canceled)
	}

	var callErr *llm.CallError
	if errors.As(err, &callErr) {
		msg := UserMessage(callErr.Kind, callErr.Err)
		if callErr.Attempts > 1 {
			return fmt.Sprintf("%s\n   (gave up after %d attempts)", msg, callErr.Attempts)
		}
		return msg
	}
	return UserMessage(llm.Classify(err), err)
}
