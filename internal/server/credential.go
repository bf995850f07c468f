package server

import (
	"github.com/RealityMoez/draw-a-ui/internal/models"
	"github.com/gin-gonic/gin"
)

// fallbackKey is the process-wide API key, set once at startup from config.
var fallbackKey string

// SetFallbackKey stores the key used when a request carries no cookie.
func SetFallbackKey(key string) {
	fallbackKey = key
}

// resolveCredential applies the precedence: a non-empty OPENAI_API_KEY cookie
// on the request, then the process-wide fallback. Returns "" if neither is set.
func resolveCredential(c *gin.Context) (key, source string) {
	if v, err := c.Cookie(models.CredentialCookie); err == nil && v != "" {
		return v, "cookie"
	}
	if fallbackKey != "" {
		return fallbackKey, "env"
	}
	return "", ""
}
