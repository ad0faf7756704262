package validate

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxAudioBytes is the size cap for audio inputs.
const MaxAudioBytes = 25 << 20 // 25 MiB

var audioExtensions = map[string]bool{
	"mp3":  true,
	"wav":  true,
	"m4a":  true,
	"mp4":  true,
	"mpeg": true,
	"mpga": true,
	"webm": true,
}

var speechFormats = map[string]bool{
	"mp3":  true,
	"opus": true,
	"aac":  true,
	"flac": true,
}

var speechVoices = map[string]bool{
	"alloy":   true,
	"echo":    true,
	"fable":   true,
	"onyx":    true,
	"nova":    true,
	"shimmer": true,
}

// AudioFile checks that path points to a readable audio file of a supported
// extension. Audio content is trusted from the extension; there is no
// header sniffing, unlike images.
func AudioFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Error{Field: "audio file", Reason: fmt.Sprintf("file not found: %s", path)}
		}
		return &Error{Field: "audio file", Reason: fmt.Sprintf("file not accessible: %v", err)}
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !audioExtensions[ext] {
		return &Error{Field: "audio file", Reason: fmt.Sprintf("unsupported extension %q (supported: mp3, wav, m4a, mp4, mpeg, mpga, webm)", ext)}
	}
	if info.Size() > MaxAudioBytes {
		return &Error{Field: "audio file", Reason: fmt.Sprintf("file is %d bytes, exceeds %d byte limit", info.Size(), MaxAudioBytes)}
	}
	f, err := os.Open(path)
	if err != nil {
		return &Error{Field: "audio file", Reason: fmt.Sprintf("file not readable: %v", err)}
	}
	f.Close()
	return nil
}

// AudioUpload checks the name and size of an already-received audio
// upload, for callers holding a stream instead of a path.
func AudioUpload(filename string, size int64) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !audioExtensions[ext] {
		return &Error{Field: "audio file", Reason: fmt.Sprintf("unsupported extension %q (supported: mp3, wav, m4a, mp4, mpeg, mpga, webm)", ext)}
	}
	if size > MaxAudioBytes {
		return &Error{Field: "audio file", Reason: fmt.Sprintf("upload is %d bytes, exceeds %d byte limit", size, MaxAudioBytes)}
	}
	return nil
}

// AudioBase64 checks a base64-encoded audio payload, with or without a
// data:audio/...;base64, prefix. Decoded bytes are size-capped in memory.
func AudioBase64(data string) error {
	payload := stripDataURL(data, "data:audio/")
	if payload == "" {
		return &Error{Field: "audio data", Reason: "empty base64 payload"}
	}
	if !base64Pattern.MatchString(payload) {
		return &Error{Field: "audio data", Reason: "not a valid base64 string"}
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return &Error{Field: "audio data", Reason: fmt.Sprintf("base64 decode failed: %v", err)}
	}
	if len(decoded) > MaxAudioBytes {
		return &Error{Field: "audio data", Reason: fmt.Sprintf("decoded audio is %d bytes, exceeds %d byte limit", len(decoded), MaxAudioBytes)}
	}
	return nil
}

// OutputFormat checks a speech synthesis output format, case-insensitively.
func OutputFormat(format string) error {
	if !speechFormats[strings.ToLower(format)] {
		return &Error{Field: "output format", Reason: fmt.Sprintf("unsupported format %q (supported: mp3, opus, aac, flac)", format)}
	}
	return nil
}

// Voice checks a speech synthesis voice, case-insensitively.
func Voice(voice string) error {
	if !speechVoices[strings.ToLower(voice)] {
		return &Error{Field: "voice", Reason: fmt.Sprintf("unsupported voice %q (supported: alloy, echo, fable, onyx, nova, shimmer)", voice)}
	}
	return nil
}
