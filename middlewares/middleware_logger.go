package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lacasadelchilaquil/chilaquiles-app/utils"
)

func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		utils.InfoLogger.Printf("%s %s -> %d (%v) from %s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
		)
	}
}
