// User-facing error messages.
//
// Information Hiding:
// - Mapping from classified error kinds to guidance text hidden here
// - The loop never formats raw transport errors for the user directly

package agent

import (
	"fmt"

	"github.com/liuqitech/codeagent/llm"
)

// UserMessage maps a classified LLM error to a message suitable for showing
// to the user, including what likely went wrong and what to try next.
func UserMessage(kind llm.ErrorKind, original error) string {
	switch kind {
	case llm.ErrTimeout:
		return "Request timed out: the LLM service took too long to respond, and retries were exhausted.\n" +
			"   Possible causes:\n" +
			"   - unstable network connection\n" +
			"   - overloaded API servers\n" +
			"   - an unusually complex request\n" +
			"   Suggestions: try again later, simplify the request, or check your connection."
	case llm.ErrAuth:
		return "Authentication failed: the API key is invalid or expired.\n" +
			"   Check the API key environment variable for your provider."
	case llm.ErrRateLimit:
		return "Rate limited: too many requests to the API.\n" +
			"   Wait a moment and try again."
	case llm.ErrServer:
		return "Server error: the LLM service is temporarily unavailable.\n" +
			"   This is not caused by your request; try again later."
	case llm.ErrConnection:
		return "Connection failed: could not reach the LLM service.\n" +
			"   Check your network connection and the API base URL."
	default:
		return fmt.Sprintf("An error occurred while processing the request: %v", original)
	}
}
