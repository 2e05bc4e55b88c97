package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"vidtube/internal/apperrors"
	"vidtube/internal/response"
)

// Errors renders the last error recorded on the context as a failure
// envelope. Internal causes are logged here and never sent to the client.
func Errors(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		kind := apperrors.KindOf(err)
		event := log.Debug()
		if kind == apperrors.KindInternal {
			event = log.Error()
		}
		event.
			Err(err).
			Str("kind", kind.String()).
			Str("path", c.Request.URL.Path).
			Str("request_id", RequestIDFrom(c)).
			Msg("request failed")

		if c.Writer.Written() {
			return
		}
		response.Fail(c, err)
	}
}
