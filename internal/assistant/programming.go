package assistant

import (
	"context"
	"fmt"
)

const programmingPrompt = "You are an experienced software engineer. Help with the given code or programming question: explain, fix, or write code as requested, and keep answers concise."

// Programming answers code questions through the chat endpoint.
type Programming struct {
	dispatcher Dispatcher
	model      string
}

func NewProgramming(d Dispatcher, model string) *Programming {
	return &Programming{dispatcher: d, model: model}
}

// Assist sends an instruction, optionally with a code snippet attached.
func (p *Programming) Assist(ctx context.Context, instruction, code string) (string, error) {
	user := instruction
	if code != "" {
		user = fmt.Sprintf("%s\n\n```\n%s\n```", instruction, code)
	}
	result, err := p.dispatcher.PostJSON(ctx, endpointChat, map[string]any{
		"model":    p.model,
		"messages": buildMessages(programmingPrompt, user),
	})
	if err != nil {
		return "", err
	}
	return extractContent(result)
}
