package assistant

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"llm-tasks/internal/validate"
)

const ocrPrompt = "Extract all text from this image. Return only the extracted text, preserving the original layout where possible."

// OCR extracts text from images via the vision-capable chat endpoint.
type OCR struct {
	dispatcher Dispatcher
	model      string
}

func NewOCR(d Dispatcher, model string) *OCR {
	return &OCR{dispatcher: d, model: model}
}

// ExtractFile reads and validates an image file, then asks the model for
// its text content.
func (o *OCR) ExtractFile(ctx context.Context, path string) (string, error) {
	if err := validate.ImageFile(path); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	url := "data:" + mimetype.Detect(data).String() + ";base64," + base64.StdEncoding.EncodeToString(data)
	return o.extract(ctx, url)
}

// ExtractBase64 validates a base64-encoded image (with or without a data
// URL prefix) and asks the model for its text content.
func (o *OCR) ExtractBase64(ctx context.Context, data string) (string, error) {
	if err := validate.ImageBase64(data); err != nil {
		return "", err
	}
	return o.extract(ctx, imageDataURL(data))
}

func (o *OCR) extract(ctx context.Context, imageURL string) (string, error) {
	result, err := o.dispatcher.PostJSON(ctx, endpointChat, map[string]any{
		"model": o.model,
		"messages": []any{
			map[string]any{
				"role": RoleUser,
				"content": []any{
					map[string]any{"type": "text", "text": ocrPrompt},
					map[string]any{"type": "image_url", "image_url": map[string]any{"url": imageURL}},
				},
			},
		},
	})
	if err != nil {
		return "", err
	}
	return extractContent(result)
}

// imageDataURL normalizes validated base64 input to a data URL, sniffing
// the media type from the decoded bytes when no prefix was given.
func imageDataURL(data string) string {
	if strings.HasPrefix(data, "data:") {
		return data
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		// validation already decoded this; keep a sane fallback anyway
		return "data:image/png;base64," + data
	}
	return "data:" + mimetype.Detect(decoded).String() + ";base64," + data
}
