package config

import (
	"os"
	"testing"
	"time"
)

func TestNewValidProvider(t *testing.T) {
	settings, err := New("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "openai" {
		t.Errorf("expected provider 'openai', got %q", settings.LLM.Provider)
	}
}

func TestNewWithAlias(t *testing.T) {
	settings, err := New("claude")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "anthropic" {
		t.Errorf("expected provider 'anthropic' (normalized from 'claude'), got %q", settings.LLM.Provider)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New("unknown_provider")
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewDefaults(t *testing.T) {
	for _, key := range []string{
		"LLM_MAX_TOKENS", "LLM_TEMPERATURE",
		"AGENT_WORKSPACE", "AGENT_MAX_HISTORY", "AGENT_MAX_ROUNDS",
		"LLM_RETRY_ATTEMPTS", "LLM_RETRY_BASE_MS", "LLM_RETRY_MAX_MS",
	} {
		original := os.Getenv(key)
		os.Unsetenv(key)
		defer os.Setenv(key, original)
	}

	settings, err := New("deepseek")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if settings.LLM.MaxTokens != 4096 {
		t.Errorf("expected max tokens 4096, got %d", settings.LLM.MaxTokens)
	}
	if settings.LLM.Temperature != 0.7 {
		t.Errorf("expected temperature 0.7, got %v", settings.LLM.Temperature)
	}
	if settings.Agent.Workspace != "./workspace" {
		t.Errorf("expected workspace './workspace', got %q", settings.Agent.Workspace)
	}
	if settings.Agent.MaxHistory != 20 {
		t.Errorf("expected max history 20, got %d", settings.Agent.MaxHistory)
	}
	if settings.Agent.MaxRounds != 25 {
		t.Errorf("expected max rounds 25, got %d", settings.Agent.MaxRounds)
	}
	if settings.Retry.Attempts != 4 {
		t.Errorf("expected 4 retry attempts, got %d", settings.Retry.Attempts)
	}
	if settings.Retry.BaseDelay != 2*time.Second {
		t.Errorf("expected base delay 2s, got %v", settings.Retry.BaseDelay)
	}
	if settings.Retry.MaxDelay != 10*time.Second {
		t.Errorf("expected max delay 10s, got %v", settings.Retry.MaxDelay)
	}
}

func TestNewEnvOverrides(t *testing.T) {
	overrides := map[string]string{
		"AGENT_WORKSPACE":   "/tmp/agent-ws",
		"AGENT_MAX_HISTORY": "8",
		"AGENT_MAX_ROUNDS":  "5",
		"LLM_MAX_TOKENS":    "1024",
	}
	for key, val := range overrides {
		original := os.Getenv(key)
		os.Setenv(key, val)
		defer os.Setenv(key, original)
	}

	settings, err := New("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if settings.Agent.Workspace != "/tmp/agent-ws" {
		t.Errorf("expected overridden workspace, got %q", settings.Agent.Workspace)
	}
	if settings.Agent.MaxHistory != 8 {
		t.Errorf("expected max history 8, got %d", settings.Agent.MaxHistory)
	}
	if settings.Agent.MaxRounds != 5 {
		t.Errorf("expected max rounds 5, got %d", settings.Agent.MaxRounds)
	}
	if settings.LLM.MaxTokens != 1024 {
		t.Errorf("expected max tokens 1024, got %d", settings.LLM.MaxTokens)
	}
}

func TestNewInvalidEnvValue(t *testing.T) {
	original := os.Getenv("AGENT_MAX_ROUNDS")
	os.Setenv("AGENT_MAX_ROUNDS", "not-a-number")
	defer os.Setenv("AGENT_MAX_ROUNDS", original)

	if _, err := New("openai"); err == nil {
		t.Error("expected error for invalid AGENT_MAX_ROUNDS")
	}
}

func TestAPIKeyForValidProvider(t *testing.T) {
	original := os.Getenv("OPENAI_API_KEY")
	os.Setenv("OPENAI_API_KEY", "test-key")
	defer os.Setenv("OPENAI_API_KEY", original)

	key, err := APIKeyFor("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "test-key" {
		t.Errorf("expected 'test-key', got %q", key)
	}
}

func TestAPIKeyForMissing(t *testing.T) {
	original := os.Getenv("OPENAI_API_KEY")
	os.Unsetenv("OPENAI_API_KEY")
	defer os.Setenv("OPENAI_API_KEY", original)

	_, err := APIKeyFor("openai")
	if err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestAPIKeyForUnknownProvider(t *testing.T) {
	if _, err := APIKeyFor("nope"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestModelForUsesEnvOverride(t *testing.T) {
	original := os.Getenv("DEEPSEEK_MODEL")
	os.Setenv("DEEPSEEK_MODEL", "deepseek-reasoner")
	defer os.Setenv("DEEPSEEK_MODEL", original)

	model, err := ModelFor("deepseek")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model != "deepseek-reasoner" {
		t.Errorf("expected 'deepseek-reasoner', got %q", model)
	}
}

func TestModelForDefault(t *testing.T) {
	original := os.Getenv("DEEPSEEK_MODEL")
	os.Unsetenv("DEEPSEEK_MODEL")
	defer os.Setenv("DEEPSEEK_MODEL", original)

	model, err := ModelFor("deepseek")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model != "deepseek-chat" {
		t.Errorf("expected 'deepseek-chat', got %q", model)
	}
}

func TestSupportedProviders(t *testing.T) {
	names := SupportedProviders()
	if len(names) != 4 {
		t.Errorf("expected 4 providers, got %d: %v", len(names), names)
	}
}
