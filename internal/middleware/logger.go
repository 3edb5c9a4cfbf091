package middleware

import (
	"time"

	"stock-stream-srv/pkg/log"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one debug line per request. Probes hit the server often, so it stays at debug.
func RequestLogger(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugf(c.Request.Context(), "%s %s %d %s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
