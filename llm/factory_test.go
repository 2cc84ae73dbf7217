package llm

import (
	"testing"
)

func TestParseProviderType(t *testing.T) {
	cases := []struct {
		input string
		want  ProviderType
	}{
		{"openai", ProviderOpenAI},
		{"OpenAI", ProviderOpenAI},
		{"anthropic", ProviderAnthropic},
		{"deepseek", ProviderDeepSeek},
		{"gemini", ProviderGemini},
	}
	for _, tc := range cases {
		got, err := ParseProviderType(tc.input)
		if err != nil {
			t.Errorf("ParseProviderType(%q) failed: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseProviderType(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseProviderTypeUnknown(t *testing.T) {
	if _, err := ParseProviderType("cohere"); err == nil {
		t.Error("expected error for unsupported provider")
	}
}

func TestProviderTypeDefaults(t *testing.T) {
	for _, p := range []ProviderType{ProviderOpenAI, ProviderAnthropic, ProviderDeepSeek, ProviderGemini} {
		if p.DefaultModel() == "" {
			t.Errorf("%v has no default model", p)
		}
		if p.EnvVar() == "" {
			t.Errorf("%v has no API key env var", p)
		}
		if p.String() == "" {
			t.Errorf("%v has no name", p)
		}
	}
}

func TestBuilderConstructsProvider(t *testing.T) {
	provider, err := ProviderDeepSeek.
		Model(ModelDeepSeekChat).
		MaxTokens(2048).
		Temperature(0.5).
		APIKey("test-key")
	if err != nil {
		t.Fatalf("builder failed: %v", err)
	}

	if provider.Name() != "deepseek" {
		t.Errorf("expected provider name 'deepseek', got %q", provider.Name())
	}
	if provider.Model() != ModelDeepSeekChat {
		t.Errorf("expected model %q, got %q", ModelDeepSeekChat, provider.Model())
	}
}

func TestBuilderDefaultModel(t *testing.T) {
	provider, err := ProviderOpenAI.APIKey("test-key")
	if err != nil {
		t.Fatalf("builder failed: %v", err)
	}
	if provider.Model() != ProviderOpenAI.DefaultModel() {
		t.Errorf("expected default model %q, got %q", ProviderOpenAI.DefaultModel(), provider.Model())
	}
}

func TestBuilderRejectsEmptyKey(t *testing.T) {
	if _, err := ProviderOpenAI.APIKey(""); err == nil {
		t.Error("expected error for empty API key")
	}
}
