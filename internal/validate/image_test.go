package validate

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var (
	pngHeader  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0}
	gifHeader  = []byte("GIF89a")
)

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

// paddedPNG returns a blob that sniffs as PNG with the given total size.
func paddedPNG(size int) []byte {
	blob := make([]byte, size)
	copy(blob, pngHeader)
	return blob
}

func TestImageFile(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		content    []byte
		wantErr    bool
		wantReason string
	}{
		{
			name:     "valid png",
			filename: "photo.png",
			content:  pngHeader,
		},
		{
			name:     "valid jpeg with jpg extension",
			filename: "photo.jpg",
			content:  jpegHeader,
		},
		{
			name:     "valid gif uppercase extension",
			filename: "photo.GIF",
			content:  gifHeader,
		},
		{
			name:     "five MiB png",
			filename: "photo.png",
			content:  paddedPNG(5 << 20),
		},
		{
			name:       "unsupported extension",
			filename:   "photo.bmp",
			content:    pngHeader, // content is never reached
			wantErr:    true,
			wantReason: "unsupported extension",
		},
		{
			name:       "extension lies about content",
			filename:   "photo.png",
			content:    []byte("definitely not an image"),
			wantErr:    true,
			wantReason: "not a supported image format",
		},
		{
			name:       "oversized file",
			filename:   "big.png",
			content:    paddedPNG(MaxImageBytes + 1),
			wantErr:    true,
			wantReason: "exceeds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, tt.filename, tt.content)
			err := ImageFile(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !IsValidation(err) {
					t.Errorf("expected validation error, got %T", err)
				}
				if !strings.Contains(err.Error(), tt.wantReason) {
					t.Errorf("error %q does not mention %q", err, tt.wantReason)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestImageFileNotFound(t *testing.T) {
	err := ImageFile(filepath.Join(t.TempDir(), "missing.png"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestImageFileIdempotent(t *testing.T) {
	path := writeTempFile(t, "photo.png", pngHeader)
	first := ImageFile(path)
	second := ImageFile(path)
	if first != nil || second != nil {
		t.Fatalf("expected both calls to pass, got %v then %v", first, second)
	}

	bad := writeTempFile(t, "photo.bmp", pngHeader)
	e1 := ImageFile(bad)
	e2 := ImageFile(bad)
	if e1 == nil || e2 == nil || e1.Error() != e2.Error() {
		t.Fatalf("expected identical failures, got %v then %v", e1, e2)
	}
}

func TestImageBase64(t *testing.T) {
	validPNG := base64.StdEncoding.EncodeToString(pngHeader)

	tests := []struct {
		name       string
		data       string
		wantErr    bool
		wantReason string
	}{
		{
			name: "plain base64 png",
			data: validPNG,
		},
		{
			name: "data url prefix",
			data: "data:image/png;base64," + validPNG,
		},
		{
			name:       "invalid alphabet",
			data:       "not-base64!!",
			wantErr:    true,
			wantReason: "not a valid base64 string",
		},
		{
			name:       "empty payload",
			data:       "",
			wantErr:    true,
			wantReason: "empty",
		},
		{
			name:       "empty after prefix",
			data:       "data:image/png;base64,",
			wantErr:    true,
			wantReason: "empty",
		},
		{
			name:       "valid alphabet but undecodable",
			data:       "AAAAA", // length not a multiple of 4
			wantErr:    true,
			wantReason: "decode failed",
		},
		{
			name:       "decodes but not an image",
			data:       base64.StdEncoding.EncodeToString([]byte("hello world")),
			wantErr:    true,
			wantReason: "not a supported image format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ImageBase64(tt.data)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.wantReason) {
					t.Errorf("error %q does not mention %q", err, tt.wantReason)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestImageBase64SizeCap(t *testing.T) {
	blob := paddedPNG(MaxImageBytes + 1)
	data := base64.StdEncoding.EncodeToString(blob)
	err := ImageBase64(data)
	if err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Fatalf("expected size error, got %v", err)
	}
}

func TestStripDataURL(t *testing.T) {
	tests := []struct {
		in       string
		prefix   string
		expected string
	}{
		{"data:image/png;base64,abcd", "data:image/", "abcd"},
		{"data:audio/mpeg;base64,abcd", "data:audio/", "abcd"},
		{"abcd", "data:image/", "abcd"},
		{"data:image/png", "data:image/", "data:image/png"}, // no ;base64, marker
	}
	for _, tt := range tests {
		if got := stripDataURL(tt.in, tt.prefix); got != tt.expected {
			t.Errorf("stripDataURL(%q): got %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestWebPSniff(t *testing.T) {
	webp := append([]byte("RIFF"), 0x24, 0x00, 0x00, 0x00)
	webp = append(webp, []byte("WEBPVP8 ")...)
	if err := sniffImage(webp); err != nil {
		t.Errorf("expected WebP header to pass sniffing, got %v", err)
	}
	if err := sniffImage(bytes.Repeat([]byte{0x00}, 16)); err == nil {
		t.Error("expected zero bytes to fail sniffing")
	}
}
