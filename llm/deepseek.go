// DeepSeek Provider implementation using go-openai library.
//
// Information Hiding:
// - Uses OpenAI-compatible API with different base URL
// - Supports deepseek-chat and deepseek-reasoner models
// - Reasoning content surfaced via LLMResponse.Reasoning

package llm

const deepseekBaseURL = "https://api.deepseek.com/v1"

// NewDeepSeekProvider creates a new DeepSeek provider. DeepSeek speaks the
// OpenAI chat-completions protocol, so this wraps the OpenAI-compatible
// provider with the DeepSeek endpoint. Reasoner models additionally return
// reasoning_content, which the shared response handling picks up.
func NewDeepSeekProvider(apiKey, model string, maxTokens uint32, temperature float32) *OpenAIProvider {
	return NewCompatibleProvider("deepseek", deepseekBaseURL, apiKey, model, maxTokens, temperature)
}
