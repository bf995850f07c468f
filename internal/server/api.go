// Package server provides the draw-a-ui Gin-based HTTP API.
// It relays wireframe snapshots to the upstream completions API and serves
// the embedded sketch UI.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/RealityMoez/draw-a-ui/internal/openai"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// JSONContentType is set on every /api/toHtml response.
const JSONContentType = "application/json; charset=UTF-8"

// nullBody is returned when no completion could be obtained.
var nullBody = []byte("null")

// Completer performs one upstream vision completion and returns its raw JSON.
type Completer interface {
	Complete(ctx context.Context, credential, imageURL string) ([]byte, error)
}

// RegisterRoutes wires up the API on the given engine.
//
//	POST /api/toHtml   relay a snapshot upstream
//	GET  /api/health   liveness + host stats
func RegisterRoutes(r *gin.Engine, completer Completer) {
	api := r.Group("/api", RequestID())
	{
		api.POST("/toHtml", handleToHTML(completer))
		api.GET("/health", handleHealth)
	}
}

// RequestID tags each request with an X-Request-ID used in log lines.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// handleToHTML relays one snapshot.
//
//	POST /api/toHtml
//	Body: { "image": "data:image/png;base64,..." }
//
// The upstream JSON is returned verbatim with status 200. Any failure to get
// a completion, including a missing credential, yields a literal null body.
func handleToHTML(completer Completer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Image string `json:"image" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
			return
		}

		id := c.GetString("request_id")
		key, source := resolveCredential(c)
		if key == "" {
			log.Printf("[toHtml] %s no API key provided, skipping upstream call", id)
			c.Data(http.StatusOK, JSONContentType, nullBody)
			return
		}

		start := time.Now()
		raw, err := completer.Complete(c.Request.Context(), key, body.Image)
		if err != nil {
			var te *openai.TransportError
			if errors.As(err, &te) {
				log.Printf("[toHtml] %s upstream transport error: %v", id, te.Err)
			} else {
				log.Printf("[toHtml] %s upstream call failed: %v", id, err)
			}
			c.Data(http.StatusOK, JSONContentType, nullBody)
			return
		}

		log.Printf("[toHtml] %s relayed %d bytes (key from %s) in %s", id, len(raw), source, time.Since(start).Round(time.Millisecond))
		c.Data(http.StatusOK, JSONContentType, raw)
	}
}
