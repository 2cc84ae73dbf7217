// Command execution for CLI commands.
//
// Information Hiding:
// - Command dispatch logic hidden
// - Agent setup hidden
// - Output formatting hidden

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/liuqitech/codeagent/agent"
	"github.com/liuqitech/codeagent/config"
	"github.com/liuqitech/codeagent/llm"
	"github.com/liuqitech/codeagent/storage"
	"github.com/liuqitech/codeagent/tools"
)

// Options holds CLI execution options.
type Options struct {
	Provider  string
	Workspace string
	MaxRounds int
	Verbose   bool
}

// DefaultOptions returns default CLI options.
func DefaultOptions() Options {
	return Options{
		MaxRounds: 0, // 0 means use settings / built-in default
		Verbose:   false,
	}
}

// RunTask executes a single request against a fresh session.
func RunTask(ctx context.Context, task string, opts Options) error {
	a, _, err := buildAgent(opts)
	if err != nil {
		return err
	}

	fmt.Printf("Running task...\n\n")

	sessionID := storage.NewSessionID()
	response := a.Execute(ctx, sessionID, task)
	printResponse(response, opts.Verbose)

	if !response.IsSuccess() {
		return fmt.Errorf("task failed: %s", response.Error)
	}
	return nil
}

// Chat starts an interactive session. History persists across turns until
// /clear; /history shows the stored window; /exit quits.
func Chat(ctx context.Context, opts Options) error {
	a, settings, err := buildAgent(opts)
	if err != nil {
		return err
	}

	sessionID := storage.NewSessionID()

	fmt.Printf("Code agent (%s, model %s)\n", settings.LLM.Provider, settings.LLM.Model)
	fmt.Printf("Session %s. Commands: /clear, /history, /exit\n\n", sessionID)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch input {
		case "/exit", "/quit", "exit", "quit":
			return scanner.Err()
		case "/clear":
			sessionID = a.Clear(sessionID)
			fmt.Printf("History cleared. New session %s\n\n", sessionID)
			continue
		case "/history":
			fmt.Printf("Session %s holds %d message(s)\n\n", sessionID, a.HistorySize(sessionID))
			continue
		}

		response := a.Execute(ctx, sessionID, input)
		printResponse(response, opts.Verbose)
	}

	return scanner.Err()
}

// Ask streams a plain completion (no tools, no history) and prints tokens as
// they arrive.
func Ask(ctx context.Context, question string, opts Options) error {
	provider, _, err := createProvider(opts)
	if err != nil {
		return err
	}

	caller := llm.NewCaller(provider)
	chunks := make(chan string, 100)

	done := make(chan error, 1)
	go func() {
		defer close(chunks)
		_, err := caller.StreamChat(ctx, []llm.ChatMessage{llm.UserMessage(question)}, chunks)
		done <- err
	}()

	for chunk := range chunks {
		fmt.Print(chunk)
	}
	fmt.Println()

	return <-done
}

// ListTools prints the registered tools.
func ListTools(verbose bool) {
	ws, err := tools.NewWorkspace(os.TempDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	registry, err := tools.WithDefaults(ws)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}

	if verbose {
		fmt.Println(registry.Description())
		return
	}
	for _, meta := range registry.List() {
		fmt.Printf("%-18s %s\n", meta.Name, meta.Description)
	}
}

// buildAgent wires provider, workspace, tools, and storage into an agent.
func buildAgent(opts Options) (*agent.Agent, config.Settings, error) {
	provider, settings, err := createProvider(opts)
	if err != nil {
		return nil, config.Settings{}, err
	}

	workspace := opts.Workspace
	if workspace == "" {
		workspace = settings.Agent.Workspace
	}

	ws, err := tools.NewWorkspace(workspace)
	if err != nil {
		return nil, settings, fmt.Errorf("failed to set up workspace: %w", err)
	}

	registry, err := tools.WithDefaults(ws)
	if err != nil {
		return nil, settings, err
	}

	store := storage.NewConversationStore(settings.Agent.MaxHistory)

	a := agent.New(provider, registry, store).
		WithRetryPolicy(llm.RetryPolicy{
			Attempts:   settings.Retry.Attempts,
			BaseDelay:  settings.Retry.BaseDelay,
			Multiplier: 2,
			MaxDelay:   settings.Retry.MaxDelay,
		}).
		Verbose(opts.Verbose)

	maxRounds := opts.MaxRounds
	if maxRounds <= 0 {
		maxRounds = settings.Agent.MaxRounds
	}
	a = a.WithMaxRounds(maxRounds)

	return a, settings, nil
}

func createProvider(opts Options) (llm.Provider, config.Settings, error) {
	if opts.Provider == "" {
		return nil, config.Settings{}, fmt.Errorf("--provider is required for this command")
	}

	providerType, err := llm.ParseProviderType(opts.Provider)
	if err != nil {
		return nil, config.Settings{}, err
	}

	settings, err := config.New(opts.Provider)
	if err != nil {
		return nil, config.Settings{}, err
	}

	apiKey, err := config.APIKeyFor(opts.Provider)
	if err != nil {
		return nil, settings, err
	}

	provider, err := providerType.
		Model(settings.LLM.Model).
		MaxTokens(settings.LLM.MaxTokens).
		Temperature(float32(settings.LLM.Temperature)).
		APIKey(apiKey)
	if err != nil {
		return nil, settings, err
	}
	return provider, settings, nil
}

// printResponse formats one agent response for the terminal.
func printResponse(response agent.Response, verbose bool) {
	if response.Reasoning != "" {
		fmt.Println("--- Reasoning ---")
		fmt.Println(response.Reasoning)
		fmt.Println("-----------------")
		fmt.Println()
	}

	if response.IsSuccess() {
		fmt.Printf("%s\n\n", response.Result)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n\n", response.Error)
	}

	if verbose {
		printStats(response.Metadata)
	}
	fmt.Printf("(%s)\n\n", formatDuration(response.Metadata.DurationMs))
}

// printStats prints per-request execution statistics.
func printStats(meta agent.Metadata) {
	fmt.Printf("Rounds: %d, tool calls: %d\n", meta.Rounds, len(meta.ToolCalls))
	for _, call := range meta.ToolCalls {
		status := "ok"
		if !call.Success {
			status = "failed"
		}
		fmt.Printf("  %-18s %s in %dms (in %dB, out %dB)\n",
			call.Name, status, call.DurationMs, call.InputSize, call.OutputSize)
	}
	if meta.TokenUsage != nil {
		fmt.Printf("Tokens: %d prompt + %d completion = %d total\n",
			meta.TokenUsage.PromptTokens, meta.TokenUsage.CompletionTokens, meta.TokenUsage.TotalTokens)
	}
}

// formatDuration renders milliseconds as "850ms" below one second and
// "2.5s" above.
func formatDuration(ms uint64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.1fs", time.Duration(ms*uint64(time.Millisecond)).Seconds())
}
