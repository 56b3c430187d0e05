package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/shopyar/shopyar-backend/config"
)

const CartSessionKey = "cart_session_token"

// CartSession reads the anonymous cart cookie into the context. The cookie is
// only issued once a guest actually puts something in a cart, so most visits
// never carry one.
func CartSession(cfg config.CartConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(cfg.SessionCookieName); err == nil && token != "" {
			c.Set(CartSessionKey, token)
		}
		c.Next()
	}
}

// GetCartSessionToken extracts the guest cart token from context
func GetCartSessionToken(c *gin.Context) string {
	return c.GetString(CartSessionKey)
}

// SetCartSessionCookie issues or refreshes the guest cart cookie
func SetCartSessionCookie(c *gin.Context, cfg config.CartConfig, token string) {
	c.SetCookie(cfg.SessionCookieName, token, int(cfg.SessionTTL.Seconds()), "/", "", false, true)
}

// ClearCartSessionCookie removes the guest cart cookie after a merge
func ClearCartSessionCookie(c *gin.Context, cfg config.CartConfig) {
	c.SetCookie(cfg.SessionCookieName, "", -1, "/", "", false, true)
}
