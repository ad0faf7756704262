package assistant

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"llm-tasks/internal/llmapi"
	"llm-tasks/internal/validate"
)

const (
	defaultVoice  = "alloy"
	defaultFormat = "mp3"

	// batchWorkers caps concurrent transcriptions in BatchTranscribe.
	batchWorkers = 4
)

// Speech transcribes audio and synthesizes speech.
type Speech struct {
	dispatcher         Dispatcher
	transcriptionModel string
	speechModel        string
}

func NewSpeech(d Dispatcher, transcriptionModel, speechModel string) *Speech {
	return &Speech{
		dispatcher:         d,
		transcriptionModel: transcriptionModel,
		speechModel:        speechModel,
	}
}

// TranscribeFile validates and uploads an audio file, returning the
// transcribed text.
func (s *Speech) TranscribeFile(ctx context.Context, path string) (string, error) {
	if err := validate.AudioFile(path); err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open audio: %w", err)
	}
	defer f.Close()
	return s.upload(ctx, filepath.Base(path), f)
}

// Transcribe uploads audio from an in-memory stream, for callers that
// received the bytes over the wire rather than from disk.
func (s *Speech) Transcribe(ctx context.Context, filename string, size int64, r io.Reader) (string, error) {
	if err := validate.AudioUpload(filename, size); err != nil {
		return "", err
	}
	return s.upload(ctx, filename, r)
}

func (s *Speech) upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	result, err := s.dispatcher.PostMultipart(ctx, endpointTranscription, []llmapi.Part{
		{Name: "file", Filename: filename, Reader: r},
		{Name: "model", Value: s.transcriptionModel},
	})
	if err != nil {
		return "", err
	}
	text, ok := result["text"].(string)
	if !ok {
		return "", &llmapi.APIError{Kind: llmapi.KindMalformed, Message: "transcription response has no text field"}
	}
	return text, nil
}

// Synthesize turns text into audio bytes. Empty voice or format fall back
// to the defaults; anything else must pass validation.
func (s *Speech) Synthesize(ctx context.Context, text, voice, format string) ([]byte, error) {
	if voice == "" {
		voice = defaultVoice
	}
	if format == "" {
		format = defaultFormat
	}
	if err := validate.Voice(voice); err != nil {
		return nil, err
	}
	if err := validate.OutputFormat(format); err != nil {
		return nil, err
	}
	return s.dispatcher.PostBinary(ctx, endpointSpeech, map[string]any{
		"model":           s.speechModel,
		"input":           text,
		"voice":           strings.ToLower(voice),
		"response_format": strings.ToLower(format),
	})
}

// Transcript pairs an input path with its transcription.
type Transcript struct {
	Path string
	Text string
}

// BatchTranscribe runs TranscribeFile over several paths with bounded
// concurrency. Each underlying dispatch is still a sequential call; only
// the façade fans out. The first failure cancels the rest.
func (s *Speech) BatchTranscribe(ctx context.Context, paths []string) ([]Transcript, error) {
	results := make([]Transcript, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			text, err := s.TranscribeFile(ctx, path)
			if err != nil {
				return fmt.Errorf("transcribe %s: %w", path, err)
			}
			results[i] = Transcript{Path: path, Text: text}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
