package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/profitpilotai/controlplane/internal/models"
)

// AdminMiddleware gates a route group to accounts with the admin role. It
// must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := c.MustGet("account").(*models.Account)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
			return
		}
		if account.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}
