package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vfmayliv/skidqi-admin-auth/src/services"
)

// Context keys set by AdminAuthMiddleware
const (
	AdminAccountKey = "admin_account"
	AdminIDKey      = "admin_id"
)

// AdminAuthMiddleware authenticates a bearer token against the auth service.
// Both the signed payload and the session row must verify.
func AdminAuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authentication token"})
			c.Abort()
			return
		}

		account, err := authService.Verify(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid or expired session"})
			c.Abort()
			return
		}

		c.Set(AdminAccountKey, account)
		c.Set(AdminIDKey, account.ID.String())
		c.Next()
	}
}

// extractBearerToken pulls the token from the Authorization header
func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
