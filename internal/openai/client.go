package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public OpenAI endpoint.
	DefaultBaseURL = "https://api.openai.com"

	// CompletionsPath is appended to the base URL for every call.
	CompletionsPath = "/v1/chat/completions"
)

// ErrMissingCredential is returned when no bearer token was supplied.
var ErrMissingCredential = errors.New("no API key provided")

// TransportError wraps failures reaching the upstream or reading its reply.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "transport: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// Client posts vision completion requests to an OpenAI-compatible API.
type Client struct {
	BaseURL   string
	Model     string
	MaxTokens int
	HTTP      *http.Client
}

// NewClient returns a Client; a zero timeout means no client-side deadline.
func NewClient(baseURL, model string, maxTokens int, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		Model:     model,
		MaxTokens: maxTokens,
		HTTP:      &http.Client{Timeout: timeout},
	}
}

// Complete sends one snapshot and returns the raw upstream JSON, whatever the
// upstream status code. Callers relay it verbatim.
func (c *Client) Complete(ctx context.Context, credential, imageURL string) ([]byte, error) {
	if credential == "" {
		return nil, ErrMissingCredential
	}

	body, err := json.Marshal(NewVisionRequest(c.Model, c.MaxTokens, imageURL))
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+CompletionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("reading body: %w", err)}
	}
	if !json.Valid(raw) {
		return nil, &TransportError{Err: fmt.Errorf("upstream returned %d with non-JSON body", resp.StatusCode)}
	}
	return raw, nil
}
