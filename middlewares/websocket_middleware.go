package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lacasadelchilaquil/chilaquiles-app/utils"
)

// WebSocketAuthMiddleware authenticates dashboard socket connections.
// Browsers cannot set headers on WebSocket upgrades, so the token travels as
// a query parameter.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil || utils.IsTokenBlacklisted(token) {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)

		c.Next()
	}
}
