// Package main provides the codeagent CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/liuqitech/codeagent/cli"
)

var (
	// Global flags
	provider  string
	workspace string
	maxRounds int
	verbose   bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "codeagent",
		Short: "LLM-driven code generation agent with a sandboxed workspace",
		Long: `A CLI agent that turns natural-language requests into file operations.

The model decides which filesystem tools to call (create, read, list, mkdir,
edit); all paths are confined to the configured workspace directory.`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "LLM provider (openai, anthropic, deepseek, gemini)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default $AGENT_WORKSPACE or ./workspace)")
	rootCmd.PersistentFlags().IntVarP(&maxRounds, "max-rounds", "m", 0, "Maximum tool-call rounds per request (default $AGENT_MAX_ROUNDS or 25)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show tool calls and execution statistics")

	// Add commands
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(toolsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func options() cli.Options {
	return cli.Options{
		Provider:  provider,
		Workspace: workspace,
		MaxRounds: maxRounds,
		Verbose:   verbose,
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [task]",
		Short: "Execute a single task and exit",
		Long: `Execute one natural-language task against a fresh session.

Example:
  codeagent run -p deepseek "create a Python script that prints primes up to 100"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunTask(context.Background(), args[0], options())
		},
	}
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session",
		Long: `Start an interactive session with conversation history.

Commands inside the session:
  /clear    discard history and start a new session
  /history  show the stored message count
  /exit     quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Chat(context.Background(), options())
		},
	}
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a one-off question (streamed, no tools)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Ask(context.Background(), args[0], options())
		},
	}
}

func toolsCmd() *cobra.Command {
	var verboseTools bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List available tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli.ListTools(verboseTools)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verboseTools, "verbose", "V", false, "Show tool parameters")

	return cmd
}
