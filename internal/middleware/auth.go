package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/profitpilotai/controlplane/internal/service"
)

const maxAuthLen = 4096

// AuthMiddleware validates the bearer token and resolves the session to its
// account. The account, never a client-supplied identity, is what downstream
// handlers trust.
func AuthMiddleware(sessions service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			return
		}

		account, err := sessions.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set("account", account)
		c.Set("login_id", account.LoginID)
		c.Set("token", token)
		c.Next()
	}
}

// bearerToken reads the Authorization header, falling back to the `token`
// query parameter for websocket upgrades where browsers cannot set headers.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > maxAuthLen {
		return ""
	}
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return ""
		}
		return parts[1]
	}
	return c.Query("token")
}
