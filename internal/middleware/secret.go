package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mettly-app/mettly-api/internal/config"
)

// SharedSecretMiddleware guards service-to-service endpoints (reminder
// trigger, attendance webhook) with the static bot secret. The comparison
// is constant-time; an empty configured secret rejects everything.
func SharedSecretMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.BotAPISecret == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "secret_not_configured"})
			return
		}

		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(cfg.BotAPISecret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_secret"})
			return
		}

		c.Next()
	}
}
