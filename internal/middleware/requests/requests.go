// Package requests provides the request logging middleware
package requests

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gravadigital/amigo-secreto-api/internal/logger"
)

const (
	HeaderRequestID = "X-Request-ID"
	ContextKey      = "request_id"
)

// Logger returns a middleware function that logs request details
func Logger() gin.HandlerFunc {
	log := logger.HTTP()

	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = "req_" + uuid.NewString()
		}
		c.Set(ContextKey, requestID)
		c.Header(HeaderRequestID, requestID)

		log.Debug("Request started",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"remote_addr", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		)

		c.Next()

		latency := time.Since(startTime)
		status := c.Writer.Status()

		logLevel := log.Info
		if status >= 500 {
			logLevel = log.Error
		} else if status >= 400 {
			logLevel = log.Warn
		}

		logLevel("Request completed",
			"request_id", requestID,
			"method", c.Request.Method,
			// NOTE: FullPath deja fuera los ids de grupo
			"route", c.FullPath(),
			"status", status,
			"latency", latency,
			"size", c.Writer.Size(),
		)
	}
}

// RequestID returns the id Logger assigned to the request
func RequestID(c *gin.Context) string {
	return c.GetString(ContextKey)
}
