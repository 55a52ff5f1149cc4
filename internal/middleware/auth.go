package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminAuth requires "Authorization: Bearer <token>" on the wrapped routes.
func AdminAuth(token string) gin.HandlerFunc {
	expected := []byte(token)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		provided, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || provided == "" || len(expected) == 0 {
			denyAdmin(c, "Missing or malformed bearer token")
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
			denyAdmin(c, "Invalid admin token")
			return
		}

		c.Next()
	}
}

func denyAdmin(c *gin.Context, message string) {
	if log := GetLogger(c); log != nil {
		log.Warn("Admin authentication failed", map[string]interface{}{
			"reason": message,
			"path":   c.Request.URL.Path,
			"ip":     c.ClientIP(),
		})
	}
	abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}
