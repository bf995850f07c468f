// Package client implements the "make real" flow: resolve the API key from the
// cookie jar, post a wireframe snapshot to the proxy, pull the generated HTML
// out of the reply and hand it to a presenter.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/RealityMoez/draw-a-ui/internal/markup"
	"github.com/RealityMoez/draw-a-ui/internal/models"
	"github.com/RealityMoez/draw-a-ui/internal/openai"
	"github.com/gabriel-vasile/mimetype"
)

// ToHTMLPath is the proxy route that relays snapshots upstream.
const ToHTMLPath = "/api/toHtml"

// KeyPrompt is shown when no API key is stored.
const KeyPrompt = "Please enter your (valid) OpenAI API key:"

var (
	// ErrMissingCredential means the user declined to provide an API key.
	ErrMissingCredential = openai.ErrMissingCredential
	// ErrBusy means a previous request is still in flight.
	ErrBusy = errors.New("a request is already in progress")
	// ErrEmptyCanvas means there is nothing to send.
	ErrEmptyCanvas = errors.New("canvas is empty")
)

// TransportError covers failures talking to the proxy, including a null reply.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "transport: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// CookieStore reads and writes named cookies.
type CookieStore interface {
	Get(name string) (string, error)
	Set(name, value string) error
	Clear(name string) error
	Header() (string, error)
}

// Prompter asks the user for a value. An empty answer means declined.
type Prompter interface {
	Prompt(ctx context.Context, message string) (string, error)
}

// Notifier shows a blocking message to the user.
type Notifier interface {
	Alert(message string)
}

// Snapshotter renders the current canvas to image bytes.
// Empty bytes mean the canvas has no shapes.
type Snapshotter interface {
	Snapshot(ctx context.Context) ([]byte, error)
}

// Presenter displays extracted markup.
type Presenter interface {
	Show(html string)
}

// Orchestrator wires the collaborators of one export button.
type Orchestrator struct {
	ProxyURL  string
	HTTP      *http.Client
	Cookies   CookieStore
	Prompter  Prompter
	Notifier  Notifier
	Canvas    Snapshotter
	Presenter Presenter

	loading atomic.Bool
}

// Loading reports whether a request is in flight.
func (o *Orchestrator) Loading() bool { return o.loading.Load() }

// MakeReal runs one export. On success the markup has already been handed to
// the presenter and is also returned.
func (o *Orchestrator) MakeReal(ctx context.Context) (string, error) {
	if !o.loading.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer o.loading.Store(false)

	if err := o.ensureCredential(ctx); err != nil {
		return "", err
	}

	png, err := o.Canvas.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	if len(png) == 0 {
		return "", ErrEmptyCanvas
	}

	completion, err := o.post(ctx, DataURL(png))
	if err != nil {
		return "", err
	}

	if upstreamErr := completion.Err(); upstreamErr != nil {
		o.Notifier.Alert(strings.ReplaceAll(upstreamErr.Message, `"`, ""))
		if err := o.Cookies.Clear(models.CredentialCookie); err != nil {
			return "", fmt.Errorf("clearing credential: %w", err)
		}
		return "", upstreamErr
	}

	if len(completion.Choices) == 0 {
		return "", &markup.MalformedResponseError{Reason: "no choices in completion"}
	}
	html, err := markup.Extract(completion.Choices[0].Message.Content)
	if err != nil {
		return "", err
	}

	o.Presenter.Show(html)
	return html, nil
}

// ensureCredential makes sure the jar holds a non-empty API key, prompting
// for one if needed.
func (o *Orchestrator) ensureCredential(ctx context.Context) error {
	key, err := o.Cookies.Get(models.CredentialCookie)
	if err != nil {
		return fmt.Errorf("reading credential: %w", err)
	}
	if key != "" {
		return nil
	}

	answer, err := o.Prompter.Prompt(ctx, KeyPrompt)
	if err != nil {
		return fmt.Errorf("prompt: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return ErrMissingCredential
	}
	if err := o.Cookies.Set(models.CredentialCookie, answer); err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}
	return nil
}

func (o *Orchestrator) post(ctx context.Context, dataURL string) (*openai.Completion, error) {
	body, err := json.Marshal(map[string]string{"image": dataURL})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	url := strings.TrimRight(o.ProxyURL, "/") + ToHTMLPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	cookie, err := o.Cookies.Header()
	if err != nil {
		return nil, fmt.Errorf("reading cookies: %w", err)
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	httpClient := o.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("reading body: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Err: fmt.Errorf("proxy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))}
	}
	if string(bytes.TrimSpace(raw)) == "null" {
		return nil, &TransportError{Err: errors.New("proxy returned no completion")}
	}

	var completion openai.Completion
	if err := json.Unmarshal(raw, &completion); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("decoding completion: %w", err)}
	}
	return &completion, nil
}

// DataURL encodes image bytes as a base64 data URL, sniffing the media type.
func DataURL(b []byte) string {
	mime := mimetype.Detect(b).String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b)
}
