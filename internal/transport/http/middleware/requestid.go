package middleware

import (
	"github.com/ErlanBelekov/cronjob-sdk/internal/requestid"
	"github.com/gin-gonic/gin"
)

// maxRequestIDLen bounds caller-supplied IDs, which end up in logs and in
// headers sent to the remote API.
const maxRequestIDLen = 128

// RequestID puts a request ID on the context and echoes it in the response.
// A caller-supplied X-Request-ID is kept unless it is too long.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestid.Header)
		if id == "" || len(id) > maxRequestIDLen {
			id = requestid.New()
		}

		c.Request = c.Request.WithContext(requestid.WithRequestID(c.Request.Context(), id))
		c.Header(requestid.Header, id)
		c.Next()
	}
}
