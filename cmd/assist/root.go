package main

import (
	"github.com/spf13/cobra"

	"llm-tasks/internal/app"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "assist",
		Short:         "Task-focused assistant over the model API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newOCRCommand())
	rootCmd.AddCommand(newMathCommand())
	rootCmd.AddCommand(newCodeCommand())
	rootCmd.AddCommand(newChatCommand())
	rootCmd.AddCommand(newTranscribeCommand())
	rootCmd.AddCommand(newSpeakCommand())

	return rootCmd
}

// buildDeps is indirected so command tests can stub the expensive setup.
var buildDeps = app.Build
