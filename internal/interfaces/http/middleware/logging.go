// Package middleware holds the cross-cutting request middleware.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
)

// RequestLogger logs one structured line per completed request.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", path),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("duration", time.Since(start)),
			logging.String("client_ip", c.ClientIP()),
		}
		if rid := RequestIDFromContext(c); rid != "" {
			fields = append(fields, logging.String("request_id", rid))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logging.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			logger.Error("request completed", fields...)
		case c.Writer.Status() >= 400:
			logger.Warn("request completed", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}
