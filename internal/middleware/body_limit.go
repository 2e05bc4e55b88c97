package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/internal/apperrors"
)

// BodyLimit caps how many request body bytes a route reads. A declared
// Content-Length over limit is rejected before anything is read; chunked
// bodies fail once the limit is crossed. A limit of zero disables the cap.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > limit {
			_ = c.Error(apperrors.PayloadTooLarge("request body exceeds the maximum upload size"))
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
