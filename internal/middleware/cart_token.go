package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	cartTokenCookie = "cart_token"
	cartTokenKey    = "cart_token"

	// Guest carts live as long as the cookie. Six months.
	cartTokenMaxAge = 180 * 24 * 60 * 60
)

// CartTokenMiddleware assigns every visitor an opaque cart token. A missing
// or malformed cookie gets a fresh UUID; the token never encodes anything
// about the shopper.
func CartTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cartTokenCookie)
		if err != nil || uuid.Validate(token) != nil {
			token = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cartTokenCookie, token, cartTokenMaxAge, "/", "", false, true)
		}
		c.Set(cartTokenKey, token)
		c.Next()
	}
}

// CartToken returns the request's cart token. Only valid behind
// CartTokenMiddleware.
func CartToken(c *gin.Context) string {
	return c.GetString(cartTokenKey)
}
