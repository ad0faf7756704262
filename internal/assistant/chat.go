package assistant

import "context"

const chatPrompt = "You are a helpful assistant."

// Chat holds a free-form conversation through the chat endpoint.
// Conversation history belongs to the caller and is passed in on every
// call; the service itself is stateless.
type Chat struct {
	dispatcher Dispatcher
	model      string
}

func NewChat(d Dispatcher, model string) *Chat {
	return &Chat{dispatcher: d, model: model}
}

// Send asks for the next reply given the conversation so far plus the new
// user message. The history slice is read, never modified; callers append
// both the user message and the returned reply themselves to continue.
func (c *Chat) Send(ctx context.Context, history []Message, user string) (string, error) {
	messages := make([]any, 0, len(history)+2)
	messages = append(messages, map[string]any{"role": RoleSystem, "content": chatPrompt})
	for _, m := range history {
		messages = append(messages, map[string]any{"role": m.Role, "content": m.Content})
	}
	messages = append(messages, map[string]any{"role": RoleUser, "content": user})

	result, err := c.dispatcher.PostJSON(ctx, endpointChat, map[string]any{
		"model":    c.model,
		"messages": messages,
	})
	if err != nil {
		return "", err
	}
	return extractContent(result)
}
