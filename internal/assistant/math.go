package assistant

import "context"

const mathPrompt = "You are a math tutor. Solve the given problem step by step, showing your reasoning, and state the final answer clearly on the last line."

// Math solves math problems through the chat endpoint.
type Math struct {
	dispatcher Dispatcher
	model      string
}

func NewMath(d Dispatcher, model string) *Math {
	return &Math{dispatcher: d, model: model}
}

// Solve returns a worked solution for the given problem statement.
func (m *Math) Solve(ctx context.Context, problem string) (string, error) {
	result, err := m.dispatcher.PostJSON(ctx, endpointChat, map[string]any{
		"model":    m.model,
		"messages": buildMessages(mathPrompt, problem),
	})
	if err != nil {
		return "", err
	}
	return extractContent(result)
}
