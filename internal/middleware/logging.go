package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fintrack/internal/logger"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
)

// quietPaths are served without an access log line; probes hit them constantly.
var quietPaths = map[string]bool{
	"/api/health": true,
}

// RequestID returns the ID assigned to the request by RequestLogging, or "".
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RequestLogging returns a Gin middleware that tags each request with an ID
// and writes one access log line per request. An inbound X-Request-ID that
// parses as a UUID is kept so IDs can be correlated across a proxy; anything
// else is replaced. The line is logged at warn for 4xx and error for 5xx.
func RequestLogging() gin.HandlerFunc {
	log := logger.Named("http")

	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()

		path := c.Request.URL.Path
		status := c.Writer.Status()
		if quietPaths[path] && status < 500 {
			return
		}

		fields := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if owner := c.GetString("userID"); owner != "" {
			fields = append(fields, "owner_id", owner)
		}

		switch {
		case status >= 500:
			log.Errorw("request", fields...)
		case status >= 400:
			log.Warnw("request", fields...)
		default:
			log.Infow("request", fields...)
		}
	}
}
