package validate

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageBytes is the size cap for image inputs.
const MaxImageBytes = 20 << 20 // 20 MiB

var imageExtensions = map[string]bool{
	"jpeg": true,
	"jpg":  true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

var imageMIMEs = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// base64Pattern matches the standard base64 alphabet with optional padding.
var base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/]*={0,2}$`)

// ImageFile checks that path points to a readable image of a supported
// format. The extension gate runs before any size or content check, so an
// unsupported name is rejected without touching the file body.
func ImageFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Error{Field: "image file", Reason: fmt.Sprintf("file not found: %s", path)}
		}
		return &Error{Field: "image file", Reason: fmt.Sprintf("file not accessible: %v", err)}
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !imageExtensions[ext] {
		return &Error{Field: "image file", Reason: fmt.Sprintf("unsupported extension %q (supported: jpeg, jpg, png, gif, webp)", ext)}
	}
	if info.Size() > MaxImageBytes {
		return &Error{Field: "image file", Reason: fmt.Sprintf("file is %d bytes, exceeds %d byte limit", info.Size(), MaxImageBytes)}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return &Error{Field: "image file", Reason: fmt.Sprintf("file not readable: %v", err)}
	}
	return sniffImage(data)
}

// ImageBase64 checks a base64-encoded image, with or without a
// data:image/...;base64, prefix. The alphabet check runs before any
// decode; decoded bytes are sniffed and size-capped in memory.
func ImageBase64(data string) error {
	payload := stripDataURL(data, "data:image/")
	if payload == "" {
		return &Error{Field: "image data", Reason: "empty base64 payload"}
	}
	if !base64Pattern.MatchString(payload) {
		return &Error{Field: "image data", Reason: "not a valid base64 string"}
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return &Error{Field: "image data", Reason: fmt.Sprintf("base64 decode failed: %v", err)}
	}
	if err := sniffImage(decoded); err != nil {
		return err
	}
	if len(decoded) > MaxImageBytes {
		return &Error{Field: "image data", Reason: fmt.Sprintf("decoded image is %d bytes, exceeds %d byte limit", len(decoded), MaxImageBytes)}
	}
	return nil
}

// sniffImage verifies the content actually is one of the supported image
// formats, regardless of what the extension claimed.
func sniffImage(data []byte) error {
	mtype := mimetype.Detect(data)
	for _, want := range imageMIMEs {
		if mtype.Is(want) {
			return nil
		}
	}
	return &Error{Field: "image content", Reason: fmt.Sprintf("detected type %s is not a supported image format", mtype.String())}
}

// stripDataURL removes a data-URL prefix when the payload carries one.
// Anything that does not look like the expected prefix is returned as-is.
func stripDataURL(data, prefix string) string {
	if !strings.HasPrefix(data, prefix) {
		return data
	}
	if idx := strings.Index(data, ";base64,"); idx >= 0 {
		return data[idx+len(";base64,"):]
	}
	return data
}
