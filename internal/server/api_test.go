package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RealityMoez/draw-a-ui/internal/openai"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const imageBody = `{"image":"data:image/png;base64,iVBORw0KGgo="}`

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(completer Completer) *gin.Engine {
	r := gin.New()
	RegisterRoutes(r, completer)
	RegisterStaticFiles(r)
	return r
}

func postToHTML(r http.Handler, body, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/toHtml", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// upstream fakes the completions API and records what it received.
type upstream struct {
	srv   *httptest.Server
	calls int
	auth  string
	req   openai.CompletionRequest
}

func newUpstream(t *testing.T, status int, body string) *upstream {
	t.Helper()
	u := &upstream{}
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.calls++
		u.auth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &u.req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(u.srv.Close)
	return u
}

func (u *upstream) client() *openai.Client {
	return openai.NewClient(u.srv.URL, "gpt-4-vision-preview", 4096, 0)
}

func withFallbackKey(t *testing.T, key string) {
	t.Helper()
	prev := fallbackKey
	SetFallbackKey(key)
	t.Cleanup(func() { SetFallbackKey(prev) })
}

func TestToHTML_CookieCredentialRelaysVerbatim(t *testing.T) {
	withFallbackKey(t, "")
	reply := `{"id":"chatcmpl-1","choices":[{"index":0,"message":{"role":"assistant","content":"<!DOCTYPE html><html></html>"}}]}`
	u := newUpstream(t, http.StatusOK, reply)

	w := postToHTML(newEngine(u.client()), imageBody, "OPENAI_API_KEY=sk-test")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, JSONContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, reply, w.Body.String())
	assert.Equal(t, "Bearer sk-test", u.auth)
	assert.Equal(t, "gpt-4-vision-preview", u.req.Model)
	assert.Equal(t, 4096, u.req.MaxTokens)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestToHTML_CookieWinsOverFallback(t *testing.T) {
	withFallbackKey(t, "sk-env")
	u := newUpstream(t, http.StatusOK, `{}`)

	postToHTML(newEngine(u.client()), imageBody, "theme=dark; OPENAI_API_KEY=sk-cookie")
	assert.Equal(t, "Bearer sk-cookie", u.auth)
}

func TestToHTML_FallbackKey(t *testing.T) {
	withFallbackKey(t, "sk-env")

	tests := []struct {
		name   string
		cookie string
	}{
		{"no cookie header", ""},
		{"other cookies only", "theme=dark"},
		{"cleared cookie", "OPENAI_API_KEY="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newUpstream(t, http.StatusOK, `{}`)
			w := postToHTML(newEngine(u.client()), imageBody, tt.cookie)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "Bearer sk-env", u.auth)
		})
	}
}

func TestToHTML_NoCredentialReturnsNull(t *testing.T) {
	withFallbackKey(t, "")
	u := newUpstream(t, http.StatusOK, `{}`)

	w := postToHTML(newEngine(u.client()), imageBody, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
	assert.Equal(t, JSONContentType, w.Header().Get("Content-Type"))
	assert.Zero(t, u.calls, "no outbound call without a credential")
}

func TestToHTML_UpstreamErrorRelayed(t *testing.T) {
	withFallbackKey(t, "")
	reply := `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`
	u := newUpstream(t, http.StatusUnauthorized, reply)

	w := postToHTML(newEngine(u.client()), imageBody, "OPENAI_API_KEY=sk-bad")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, reply, w.Body.String())
}

type failingCompleter struct{ err error }

func (f failingCompleter) Complete(ctx context.Context, credential, imageURL string) ([]byte, error) {
	return nil, f.err
}

func TestToHTML_TransportFailureReturnsNull(t *testing.T) {
	withFallbackKey(t, "sk-env")

	for _, err := range []error{
		&openai.TransportError{Err: errors.New("connection refused")},
		errors.New("unexpected"),
	} {
		w := postToHTML(newEngine(failingCompleter{err: err}), imageBody, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "null", w.Body.String())
	}
}

func TestToHTML_BadBody(t *testing.T) {
	withFallbackKey(t, "sk-env")
	u := newUpstream(t, http.StatusOK, `{}`)
	r := newEngine(u.client())

	for _, body := range []string{`not json`, `{}`, `{"image":""}`} {
		w := postToHTML(r, body, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Zero(t, u.calls)
}

func TestHealth(t *testing.T) {
	r := newEngine(failingCompleter{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "host")
}

func TestStaticFallback(t *testing.T) {
	r := newEngine(failingCompleter{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Make Real")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
