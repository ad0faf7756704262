package assistant

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"llm-tasks/internal/llmapi"
	"llm-tasks/internal/validate"
)

func writeAudio(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("fake audio"), 0o644))
	return path
}

func TestTranscribeFile(t *testing.T) {
	path := writeAudio(t, "clip.mp3")

	d := new(MockDispatcher)
	d.On("PostMultipart", mock.Anything, endpointTranscription, mock.MatchedBy(func(parts []llmapi.Part) bool {
		if len(parts) != 2 {
			return false
		}
		file, model := parts[0], parts[1]
		return file.Name == "file" && file.Filename == "clip.mp3" && file.Reader != nil &&
			model.Name == "model" && model.Value == "whisper-1"
	})).Return(map[string]any{"text": "hello world"}, nil).Once()

	s := NewSpeech(d, "whisper-1", "tts-1")
	text, err := s.TranscribeFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
	d.AssertExpectations(t)
}

func TestTranscribeFileRejectsBeforeDispatch(t *testing.T) {
	path := writeAudio(t, "clip.ogg")

	d := new(MockDispatcher)
	s := NewSpeech(d, "whisper-1", "tts-1")
	_, err := s.TranscribeFile(context.Background(), path)
	require.Error(t, err)
	assert.True(t, validate.IsValidation(err))
	d.AssertExpectations(t)
}

func TestTranscribeFileMissingTextField(t *testing.T) {
	path := writeAudio(t, "clip.mp3")

	d := new(MockDispatcher)
	d.On("PostMultipart", mock.Anything, endpointTranscription, mock.Anything).
		Return(map[string]any{"status": "done"}, nil).Once()

	s := NewSpeech(d, "whisper-1", "tts-1")
	_, err := s.TranscribeFile(context.Background(), path)
	require.Error(t, err)
	assert.True(t, llmapi.IsMalformed(err))
}

func TestTranscribeStream(t *testing.T) {
	d := new(MockDispatcher)
	d.On("PostMultipart", mock.Anything, endpointTranscription, mock.MatchedBy(func(parts []llmapi.Part) bool {
		return parts[0].Filename == "upload.wav"
	})).Return(map[string]any{"text": "streamed"}, nil).Once()

	s := NewSpeech(d, "whisper-1", "tts-1")
	text, err := s.Transcribe(context.Background(), "upload.wav", 4, strings.NewReader("beep"))
	require.NoError(t, err)
	assert.Equal(t, "streamed", text)
	d.AssertExpectations(t)
}

func TestTranscribeStreamRejectsBadName(t *testing.T) {
	d := new(MockDispatcher)
	s := NewSpeech(d, "whisper-1", "tts-1")
	_, err := s.Transcribe(context.Background(), "upload.txt", 4, strings.NewReader("beep"))
	require.Error(t, err)
	assert.True(t, validate.IsValidation(err))
	d.AssertExpectations(t)
}

func TestSynthesize(t *testing.T) {
	audio := []byte{0x49, 0x44, 0x33}

	d := new(MockDispatcher)
	d.On("PostBinary", mock.Anything, endpointSpeech, map[string]any{
		"model":           "tts-1",
		"input":           "hello",
		"voice":           "nova",
		"response_format": "mp3",
	}).Return(audio, nil).Once()

	s := NewSpeech(d, "whisper-1", "tts-1")
	got, err := s.Synthesize(context.Background(), "hello", "NOVA", "MP3")
	require.NoError(t, err)
	assert.Equal(t, audio, got)
	d.AssertExpectations(t)
}

func TestSynthesizeDefaults(t *testing.T) {
	d := new(MockDispatcher)
	d.On("PostBinary", mock.Anything, endpointSpeech, map[string]any{
		"model":           "tts-1",
		"input":           "hello",
		"voice":           "alloy",
		"response_format": "mp3",
	}).Return([]byte{1}, nil).Once()

	s := NewSpeech(d, "whisper-1", "tts-1")
	_, err := s.Synthesize(context.Background(), "hello", "", "")
	require.NoError(t, err)
	d.AssertExpectations(t)
}

func TestSynthesizeRejectsBadVoice(t *testing.T) {
	d := new(MockDispatcher)
	s := NewSpeech(d, "whisper-1", "tts-1")
	_, err := s.Synthesize(context.Background(), "hello", "robotic", "mp3")
	require.Error(t, err)
	assert.True(t, validate.IsValidation(err))
	d.AssertExpectations(t)
}

func TestSynthesizeRejectsBadFormat(t *testing.T) {
	d := new(MockDispatcher)
	s := NewSpeech(d, "whisper-1", "tts-1")
	_, err := s.Synthesize(context.Background(), "hello", "nova", "wav")
	require.Error(t, err)
	assert.True(t, validate.IsValidation(err))
	d.AssertExpectations(t)
}

func TestBatchTranscribe(t *testing.T) {
	a := writeAudio(t, "a.mp3")
	b := writeAudio(t, "b.mp3")

	d := new(MockDispatcher)
	d.On("PostMultipart", mock.Anything, endpointTranscription, mock.MatchedBy(func(parts []llmapi.Part) bool {
		return parts[0].Filename == "a.mp3"
	})).Return(map[string]any{"text": "first"}, nil).Once()
	d.On("PostMultipart", mock.Anything, endpointTranscription, mock.MatchedBy(func(parts []llmapi.Part) bool {
		return parts[0].Filename == "b.mp3"
	})).Return(map[string]any{"text": "second"}, nil).Once()

	s := NewSpeech(d, "whisper-1", "tts-1")
	results, err := s.BatchTranscribe(context.Background(), []string{a, b})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// results keep input order regardless of completion order
	assert.Equal(t, a, results[0].Path)
	assert.Equal(t, "first", results[0].Text)
	assert.Equal(t, b, results[1].Path)
	assert.Equal(t, "second", results[1].Text)
	d.AssertExpectations(t)
}

func TestBatchTranscribeFailsFast(t *testing.T) {
	a := writeAudio(t, "a.mp3")
	missing := filepath.Join(t.TempDir(), "missing.mp3")

	d := new(MockDispatcher)
	d.On("PostMultipart", mock.Anything, endpointTranscription, mock.Anything).
		Return(map[string]any{"text": "first"}, nil).Maybe()

	s := NewSpeech(d, "whisper-1", "tts-1")
	_, err := s.BatchTranscribe(context.Background(), []string{a, missing})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.mp3")
}
