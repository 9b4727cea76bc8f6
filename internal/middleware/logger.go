package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lunahealth/backend/internal/logger"
)

// Logger assigns each request an id, threads it through the request
// context, and logs the request line on completion.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		ctx := logger.WithRequestID(c.Request.Context(), c.GetHeader("X-Request-ID"))
		c.Request = c.Request.WithContext(ctx)
		if requestID := logger.RequestIDFromContext(ctx); requestID != "" {
			c.Set("request_id", requestID)
			c.Header("X-Request-ID", requestID)
		}

		c.Next()

		logger.Ctx(ctx).Info("request completed",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("latency", time.Since(start)),
			logger.String("client_ip", c.ClientIP()),
		)
	}
}
