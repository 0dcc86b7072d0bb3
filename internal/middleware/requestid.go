package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderXRequestID carries the request id to clients and upstream proxies.
	HeaderXRequestID = "X-Request-ID"
	// ContextRequestID is the gin context key the logging and timeout
	// middleware read the id from.
	ContextRequestID = "request_id"
)

// RequestID tags every request with an id, honoring one the caller already
// supplied, and echoes it in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderXRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Set(ContextRequestID, rid)
		c.Header(HeaderXRequestID, rid)
		c.Next()
	}
}
