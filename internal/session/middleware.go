package session

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Middleware extracts the bearer token from the Authorization header and
// stores it on the request context for the Provider to resolve later.
//
// A request without a token proceeds; handlers that need a logged-in
// user check the resolved user themselves or sit behind RequireUser.
// This keeps public endpoints, protected endpoints, and optional-auth
// endpoints on the same chain.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			slog.Debug("malformed authorization header", "path", c.Request.URL.Path)
			c.Next()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		c.Request = c.Request.WithContext(WithToken(c.Request.Context(), token))
		c.Next()
	}
}

// RequireUser aborts with 401 Unauthorized when the request does not
// resolve to a logged-in user.
func RequireUser(provider *Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := provider.CurrentUser(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "failed to resolve session",
			})
			return
		}
		if user == nil {
			slog.Warn("authentication required but not provided",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "authentication required",
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts with 403 Forbidden unless the request resolves to
// an account with the admin flag.
func RequireAdmin(provider *Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, err := provider.IsAdmin(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "failed to resolve session",
			})
			return
		}
		if !admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "admin access required",
			})
			return
		}
		c.Next()
	}
}
