package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/internal/apperrors"
)

type Success struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

type Failure struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// HandlerFunc is a gin handler that reports failure by returning it.
type HandlerFunc func(c *gin.Context) error

// Handle adapts fn so returned errors reach the error boundary middleware.
func Handle(fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := fn(c); err != nil {
			_ = c.Error(err)
			c.Abort()
		}
	}
}

func OK(c *gin.Context, status int, data any, message string) error {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(status, Success{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
	return nil
}

// FailureFor builds the client-facing envelope for err. Errors that are not
// *apperrors.Error render as a generic 500.
func FailureFor(err error) Failure {
	failure := Failure{
		StatusCode: http.StatusInternalServerError,
		Message:    "internal server error",
		Success:    false,
		Errors:     []string{},
	}

	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		return failure
	}

	failure.StatusCode = appErr.Kind.StatusCode()
	if appErr.Message != "" {
		failure.Message = appErr.Message
	}
	if len(appErr.Details) > 0 {
		failure.Errors = appErr.Details
	}
	return failure
}

func Fail(c *gin.Context, err error) {
	failure := FailureFor(err)
	c.AbortWithStatusJSON(failure.StatusCode, failure)
}
