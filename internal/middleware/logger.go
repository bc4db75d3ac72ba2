package middleware

import (
	"time"

	"college-payroll/internal/logger"
	"college-payroll/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger logs incoming requests and adds a request_id for tracing.
// The id and client IP also travel on the request context so the audit
// trail can attribute changes.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Set("request_ip", c.ClientIP())
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(services.WithRequestMeta(c.Request.Context(), services.RequestMeta{
			RequestID: requestID,
			IP:        c.ClientIP(),
		}))

		c.Next()

		log.Info(
			"[Request] ID: %s | Status: %d | Latency: %s | Method: %s | Path: %s | IP: %s",
			requestID,
			c.Writer.Status(),
			time.Since(start),
			c.Request.Method,
			c.Request.URL.Path,
			c.ClientIP(),
		)
	}
}
