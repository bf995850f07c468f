// Package openai holds the wire types and HTTP client for the upstream
// chat completions API used to turn a wireframe snapshot into HTML.
package openai

import (
	"encoding/json"
	"strings"
)

// SystemPrompt is sent as the system message on every completion request.
const SystemPrompt = `You are an expert tailwind developer. A user will provide you with a
 low-fidelity wireframe of an application and you will return
 a single html file that uses tailwind to create the website. Use creative license to make the application more fleshed out.
if you need to insert an image, use placehold.co to create a placeholder image. Respond only with the html file.`

// UserInstruction accompanies the image in the user turn.
const UserInstruction = "Turn this into a single html file using tailwind."

// Image detail levels accepted by the vision models.
const (
	DetailLow  = "low"
	DetailHigh = "high"
	DetailAuto = "auto"
)

// CompletionRequest is the fixed-shape body posted to /v1/chat/completions.
type CompletionRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

// Message is one chat turn. Content is either a string or a []ContentPart.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// ContentPart is one element of a multimodal message.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL points at an image, here always an inline data URL.
type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

// NewVisionRequest builds the request for one snapshot.
func NewVisionRequest(model string, maxTokens int, imageURL string) CompletionRequest {
	return CompletionRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages: []Message{
			{Role: "system", Content: SystemPrompt},
			{
				Role: "user",
				Content: []ContentPart{
					{Type: "image_url", ImageURL: &ImageURL{URL: imageURL, Detail: DetailHigh}},
					{Type: "text", Text: UserInstruction},
				},
			},
		},
	}
}

// Completion is the subset of the upstream response consumed by the client.
// Error is populated instead of Choices when the upstream rejects the call.
type Completion struct {
	ID      string          `json:"id"`
	Model   string          `json:"model"`
	Choices []Choice        `json:"choices"`
	Error   json.RawMessage `json:"error,omitempty"`
}

// Err returns the upstream error carried by the completion, or nil when the
// error field is absent or falsy.
func (c *Completion) Err() *UpstreamError {
	if !Truthy(c.Error) {
		return nil
	}
	return parseUpstreamError(c.Error)
}

// Choice is one generated alternative.
type Choice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

// UpstreamError is the OpenAI-compatible error envelope body.
type UpstreamError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

func (e *UpstreamError) Error() string {
	if e.Type != "" {
		return "upstream " + e.Type + ": " + e.Message
	}
	return "upstream error: " + e.Message
}

// parseUpstreamError accepts any truthy error value. Some gateways send a
// bare string, and code may be numeric.
func parseUpstreamError(data []byte) *UpstreamError {
	e := &UpstreamError{}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.Message = s
		return e
	}
	var raw struct {
		Message string          `json:"message"`
		Type    string          `json:"type"`
		Code    json.RawMessage `json:"code"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		// true, 1, [...]: still an error, without detail
		e.Message = strings.TrimSpace(string(data))
		return e
	}
	e.Message = raw.Message
	e.Type = raw.Type
	if len(raw.Code) > 0 && string(raw.Code) != "null" {
		var code string
		if err := json.Unmarshal(raw.Code, &code); err != nil {
			code = string(raw.Code)
		}
		e.Code = code
	}
	return e
}

// Truthy reports whether a raw JSON error value should be treated as set.
func Truthy(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}
