package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "invenpos/internal/core/context"
)

// UserContext mirrors the authenticated identity into gin context keys.
//
// This middleware must run AFTER Auth, which populates the request
// context. Handlers and the request logger can then read "user_id" and
// "username" without touching the request context.
func UserContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := appctx.GetUser(c.Request.Context()); user != nil {
			c.Set("user_id", user.UserID)
			c.Set("username", user.Username)
			c.Set("role", user.Role)
		}
		c.Next()
	}
}
