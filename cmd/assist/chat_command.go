package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"llm-tasks/internal/assistant"
)

func newChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Hold a conversation; type 'exit' to quit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := buildDeps()
			if err != nil {
				return err
			}

			// The history lives here, in the caller, for the whole session.
			var history []assistant.Message
			scanner := bufio.NewScanner(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			fmt.Fprint(out, "> ")
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					fmt.Fprint(out, "> ")
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}
				reply, err := deps.Chat.Send(cmd.Context(), history, line)
				if err != nil {
					return err
				}
				history = append(history,
					assistant.Message{Role: assistant.RoleUser, Content: line},
					assistant.Message{Role: assistant.RoleAssistant, Content: reply},
				)
				fmt.Fprintf(out, "%s\n> ", reply)
			}
			return scanner.Err()
		},
	}
}
