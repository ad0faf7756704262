// Package llmapi implements the HTTP client for the model API.
// It sends JSON, multipart and binary-response requests with bearer
// authorization, retries transient failures with linear backoff, and
// classifies every failure into an APIError kind.
package llmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"llm-tasks/internal/retry"
)

const (
	defaultTimeout     = 60 * time.Second
	defaultMaxAttempts = 3
	defaultBaseDelay   = time.Second
)

// Config controls the client's endpoint, credentials and retry policy.
type Config struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
}

// Client is the model API client. Safe for concurrent use; all per-call
// state lives on the stack of a single dispatch.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	log         *slog.Logger
	maxAttempts int
	baseDelay   time.Duration
}

// Part is one field of a multipart request. Reader parts become file
// fields (Filename optional), Value parts become plain form fields.
type Part struct {
	Name     string
	Filename string
	Reader   io.Reader
	Value    string
}

// New builds a client with defaults for any zero Config field.
func New(cfg Config, log *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaultBaseDelay
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		log:         log,
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.BaseDelay,
	}
}

// PostJSON sends a JSON request and decodes a JSON response body.
func (c *Client) PostJSON(ctx context.Context, endpoint string, body map[string]any) (map[string]any, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	respBody, err := c.do(ctx, endpoint, "application/json", payload)
	if err != nil {
		return nil, err
	}
	return decodeJSON(respBody)
}

// PostMultipart sends a multipart/form-data request and decodes a JSON
// response body. Parts are written in order.
func (c *Client) PostMultipart(ctx context.Context, endpoint string, parts []Part) (map[string]any, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, p := range parts {
		if p.Reader != nil {
			field, err := writer.CreateFormFile(p.Name, p.Filename)
			if err != nil {
				return nil, fmt.Errorf("failed to create form file %q: %w", p.Name, err)
			}
			if _, err := io.Copy(field, p.Reader); err != nil {
				return nil, fmt.Errorf("failed to write form file %q: %w", p.Name, err)
			}
			continue
		}
		if err := writer.WriteField(p.Name, p.Value); err != nil {
			return nil, fmt.Errorf("failed to write form field %q: %w", p.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	respBody, err := c.do(ctx, endpoint, writer.FormDataContentType(), buf.Bytes())
	if err != nil {
		return nil, err
	}
	return decodeJSON(respBody)
}

// PostBinary sends a JSON request and returns the raw response bytes
// without any JSON decoding.
func (c *Client) PostBinary(ctx context.Context, endpoint string, body map[string]any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, endpoint, "application/json", payload)
}

// do runs the attempt loop shared by all three entry points. It returns the
// response body of a 2xx response, or a classified *APIError. Only transport
// failures and 5xx responses are retried; everything else fails on sight.
func (c *Client) do(ctx context.Context, endpoint, contentType string, body []byte) ([]byte, error) {
	url := c.baseURL + "/" + strings.TrimPrefix(endpoint, "/")
	requestID := uuid.NewString()
	log := c.log.With("endpoint", endpoint, "request_id", requestID)

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := retry.LinearBackoff(attempt, c.baseDelay)
			log.Warn("retrying request", "attempt", attempt+1, "delay", delay, "err", lastErr)
			if err := retry.Sleep(ctx, delay); err != nil {
				return nil, &APIError{Kind: KindNetwork, Message: "request cancelled during backoff", Err: err}
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, &APIError{Kind: KindNetwork, Message: "failed to create request", Err: err}
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("X-Request-ID", requestID)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			log.Debug("request succeeded", "status", resp.StatusCode, "attempt", attempt+1)
			return respBody, nil
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, rateLimitError(resp, respBody)
		case resp.StatusCode == http.StatusUnauthorized:
			return nil, &APIError{
				Kind:    KindAuth,
				Status:  resp.StatusCode,
				Message: errorMessage(respBody, "invalid or missing API key"),
			}
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return nil, &APIError{
				Kind:    KindClient,
				Status:  resp.StatusCode,
				Message: errorMessage(respBody, "request rejected"),
			}
		case resp.StatusCode >= 500:
			lastErr = &APIError{
				Kind:    KindServer,
				Status:  resp.StatusCode,
				Message: errorMessage(respBody, "upstream server error"),
			}
			continue
		default:
			return nil, &APIError{
				Kind:    KindClient,
				Status:  resp.StatusCode,
				Message: "unexpected status",
			}
		}
	}

	log.Error("request failed after all attempts", "attempts", c.maxAttempts, "err", lastErr)
	var apiErr *APIError
	if errors.As(lastErr, &apiErr) {
		// 5xx on the final attempt surfaces as the server error itself.
		return nil, apiErr
	}
	return nil, &APIError{
		Kind:    KindNetwork,
		Message: fmt.Sprintf("no response after %d attempts", c.maxAttempts),
		Err:     lastErr,
	}
}

func decodeJSON(body []byte) (map[string]any, error) {
	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &APIError{
			Kind:    KindMalformed,
			Message: "response body is not valid JSON",
			Err:     err,
		}
	}
	return result, nil
}

// errorMessage pulls error.message out of a failure body, falling back to
// the given default when the body is absent or not in the expected shape.
func errorMessage(body []byte, fallback string) string {
	if msg := gjson.GetBytes(body, "error.message"); msg.Exists() && msg.String() != "" {
		return msg.String()
	}
	return fallback
}

// rateLimitError builds the 429 classification. The body's retry_after field
// wins over the Retry-After header; the header is always seconds-from-now,
// while body values above 1e9 are treated as an absolute epoch.
func rateLimitError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		Kind:    KindRateLimit,
		Status:  resp.StatusCode,
		Message: errorMessage(body, "rate limit exceeded"),
	}
	if v := gjson.GetBytes(body, "retry_after"); v.Exists() {
		apiErr.RetryAfter = retryAfterTime(v.Int())
		return apiErr
	}
	if header := resp.Header.Get("Retry-After"); header != "" {
		if secs, err := strconv.Atoi(header); err == nil {
			at := time.Now().Add(time.Duration(secs) * time.Second)
			apiErr.RetryAfter = &at
		}
	}
	return apiErr
}

func retryAfterTime(v int64) *time.Time {
	var at time.Time
	if v > 1_000_000_000 {
		at = time.Unix(v, 0)
	} else {
		at = time.Now().Add(time.Duration(v) * time.Second)
	}
	return &at
}
