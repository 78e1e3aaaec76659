package security

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireSecret guards internal endpoints with a shared secret carried in the
// X-Admin-Secret header. An empty configured secret disables the guard, which
// is the development-mode default.
func RequireSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		provided := c.GetHeader("X-Admin-Secret")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "a valid X-Admin-Secret header is required",
			})
			return
		}
		c.Next()
	}
}
