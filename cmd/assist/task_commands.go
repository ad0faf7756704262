package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newOCRCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ocr <image-file>",
		Short: "Extract text from an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := buildDeps()
			if err != nil {
				return err
			}
			text, err := deps.OCR.ExtractFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newMathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "math <problem...>",
		Short: "Solve a math problem step by step",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := buildDeps()
			if err != nil {
				return err
			}
			solution, err := deps.Math.Solve(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), solution)
			return nil
		},
	}
}

func newCodeCommand() *cobra.Command {
	var codeFile string

	cmd := &cobra.Command{
		Use:   "code [instruction...]",
		Short: "Get help with code, optionally attaching a source file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := buildDeps()
			if err != nil {
				return err
			}
			var code string
			if codeFile != "" {
				content, err := os.ReadFile(codeFile)
				if err != nil {
					return fmt.Errorf("failed to read code file: %w", err)
				}
				code = string(content)
			}
			answer, err := deps.Programming.Assist(cmd.Context(), strings.Join(args, " "), code)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
	cmd.Flags().StringVarP(&codeFile, "file", "f", "", "Source file to attach to the instruction")
	return cmd
}

func newTranscribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "transcribe <audio-file...>",
		Short: "Transcribe one or more audio files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := buildDeps()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				text, err := deps.Speech.TranscribeFile(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			transcripts, err := deps.Speech.BatchTranscribe(cmd.Context(), args)
			if err != nil {
				return err
			}
			for _, tr := range transcripts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:\n%s\n\n", tr.Path, tr.Text)
			}
			return nil
		},
	}
}

func newSpeakCommand() *cobra.Command {
	var output string
	var voice string
	var format string

	cmd := &cobra.Command{
		Use:   "speak <text...>",
		Short: "Synthesize speech from text into an audio file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := buildDeps()
			if err != nil {
				return err
			}
			audio, err := deps.Speech.Synthesize(cmd.Context(), strings.Join(args, " "), voice, format)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, audio, 0o644); err != nil {
				return fmt.Errorf("failed to write audio file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(audio), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "speech.mp3", "Output audio file")
	cmd.Flags().StringVar(&voice, "voice", "", "Voice (alloy, echo, fable, onyx, nova, shimmer)")
	cmd.Flags().StringVar(&format, "format", "", "Output format (mp3, opus, aac, flac)")
	return cmd
}
