package middleware

import (
	"github.com/gin-gonic/gin"
)

// abortWithError writes the standard error envelope and stops the chain.
// The errors package depends on this one, so middleware builds the body itself.
func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":       code,
			"message":    message,
			"request_id": GetRequestID(c),
		},
	})
}
