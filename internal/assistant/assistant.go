// Package assistant holds the task façades: each service maps its inputs
// onto one model API call and extracts the relevant output field.
package assistant

import (
	"context"

	"llm-tasks/internal/llmapi"
)

// API endpoints the façades talk to.
const (
	endpointChat          = "chat/completions"
	endpointTranscription = "audio/transcriptions"
	endpointSpeech        = "audio/speech"
)

// Dispatcher is the slice of the llmapi client the façades need,
// kept as an interface to allow mocking in tests.
type Dispatcher interface {
	PostJSON(ctx context.Context, endpoint string, body map[string]any) (map[string]any, error)
	PostMultipart(ctx context.Context, endpoint string, parts []llmapi.Part) (map[string]any, error)
	PostBinary(ctx context.Context, endpoint string, body map[string]any) ([]byte, error)
}

// Message is one turn of a conversation. Histories are caller-owned
// ordered slices; no façade ever mutates one.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

func buildMessages(system, user string) []any {
	return []any{
		map[string]any{"role": RoleSystem, "content": system},
		map[string]any{"role": RoleUser, "content": user},
	}
}

// extractContent pulls choices[0].message.content out of a chat response.
// A response without it counts as malformed: the call succeeded at the
// HTTP level but the body is not usable.
func extractContent(result map[string]any) (string, error) {
	choices, ok := result["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", &llmapi.APIError{Kind: llmapi.KindMalformed, Message: "no choices in response"}
	}
	first, ok := choices[0].(map[string]any)
	if !ok {
		return "", &llmapi.APIError{Kind: llmapi.KindMalformed, Message: "malformed choice in response"}
	}
	message, ok := first["message"].(map[string]any)
	if !ok {
		return "", &llmapi.APIError{Kind: llmapi.KindMalformed, Message: "choice has no message"}
	}
	content, ok := message["content"].(string)
	if !ok || content == "" {
		return "", &llmapi.APIError{Kind: llmapi.KindMalformed, Message: "message has no content"}
	}
	return content, nil
}
