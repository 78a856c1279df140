package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ivan-cardenas/overlaymaps-backend/internal/errors"
)

const adminKeyHeader = "X-Admin-Key"

// AdminKeyMiddleware guards admin routes with a shared key. An empty
// configured key disables the admin surface entirely.
func AdminKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			apperrors.Unauthorized(c, "admin access is disabled")
			c.Abort()
			return
		}
		provided := c.GetHeader(adminKeyHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			apperrors.Unauthorized(c, "invalid admin key")
			c.Abort()
			return
		}
		c.Next()
	}
}
