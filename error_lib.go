package blogapi

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	ErrorCodeMissingField     = "MISSING_FIELD"
	ErrorCodeIDMismatch       = "ID_MISMATCH"
	ErrorCodeInvalidBody      = "INVALID_BODY"
	ErrorCodeInvalidField     = "INVALID_FIELD"
	ErrorCodeValidationFailed = "VALIDATION_FAILED"
	ErrorCodeNotFound         = "NOT_FOUND"
	ErrorCodeInternal         = "INTERNAL_SERVER_ERROR"
)

// Predefined client errors. Call New to fill in the message arguments.
var (
	ErrMissingField = ApiError{
		ErrorCode:  ErrorCodeMissingField,
		Message:    "Missing `%s` in request body",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrIDMismatch = ApiError{
		ErrorCode:  ErrorCodeIDMismatch,
		Message:    "Request path id (%s) and request body id (%s) must match",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrInvalidBody = ApiError{
		ErrorCode:  ErrorCodeInvalidBody,
		Message:    "Request body must be a JSON object",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrInvalidField = ApiError{
		ErrorCode:  ErrorCodeInvalidField,
		Message:    "Invalid value for `%s` in request body",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrValidationFailed = ApiError{
		ErrorCode:  ErrorCodeValidationFailed,
		Message:    "%s",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrNotFound = ApiError{
		ErrorCode:  ErrorCodeNotFound,
		Message:    "%s not found",
		HTTPStatus: http.StatusNotFound,
	}
)

type ApiError struct {
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
}

func (e ApiError) New(messages ...string) ApiError {
	args := make([]any, len(messages))
	for i, msg := range messages {
		args[i] = msg
	}

	message := fmt.Sprintf(e.Message, args...)
	return ApiError{
		ErrorCode:  e.ErrorCode,
		Message:    message,
		HTTPStatus: e.HTTPStatus,
	}
}

func (e ApiError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

// Status returns the HTTP status the error is reported with. Errors built
// without an explicit status are client errors.
func (e ApiError) Status() int {
	if e.HTTPStatus == 0 {
		return http.StatusBadRequest
	}
	return e.HTTPStatus
}

type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// SendError writes err as an ErrorResponse. ApiErrors keep their code and
// message; anything else is logged and reported as a generic 500 so storage
// details never reach the client.
// RequestIDKey is the gin context key holding the id of the current request.
const RequestIDKey = "request_id"

// requestLine names the request in log output, prefixed by its id when one
// was assigned.
func requestLine(c *gin.Context) string {
	line := c.Request.Method + " " + c.Request.URL.Path
	if id := c.GetString(RequestIDKey); id != "" {
		return "[" + id + "] " + line
	}
	return line
}

func SendError(c *gin.Context, err error) {
	var customErr ApiError
	if errors.As(err, &customErr) {
		log.Printf("%s rejected: %s", requestLine(c), customErr.Message)
		c.AbortWithStatusJSON(customErr.Status(), ErrorResponse{
			ErrorCode: customErr.ErrorCode,
			Message:   customErr.Message,
		})
		return
	}
	log.Printf("%s failed: %v", requestLine(c), err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		ErrorCode: ErrorCodeInternal,
		Message:   "An unknown error occurred",
	})
}
