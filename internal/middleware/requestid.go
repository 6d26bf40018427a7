package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextRequestID is the gin context key holding the request id.
	ContextRequestID = "request_id"

	headerRequestID = "X-Request-ID"
)

// RequestID honors an incoming X-Request-ID or assigns a fresh one, echoing
// it back on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextRequestID, id)
		c.Writer.Header().Set(headerRequestID, id)
		c.Next()
	}
}
