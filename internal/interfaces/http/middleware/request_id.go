// Package middleware provides the gin middleware chain: request IDs, tenant
// key extraction, and actor attribution.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is the header carrying the request correlation ID
const RequestIDHeader = "X-Request-ID"

// RequestIDContextKey is the gin context key for the request ID
const RequestIDContextKey = "request_id"

// RequestID assigns each request a correlation ID, honoring one supplied by
// the caller, and echoes it in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDContextKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID returns the request ID assigned to this request
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDContextKey)
}
