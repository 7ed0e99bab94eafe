package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	blogapi "github.com/klass-lk/blog-api"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = blogapi.RequestIDKey
)

// RequestID reuses the caller's X-Request-ID or generates one, stores it on
// the context and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
