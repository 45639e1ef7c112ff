package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskvault/taskvault/internal/common"
)

// errorBody is the error envelope every failing endpoint returns.
type errorBody struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

// writeError is the single mapping point from sentinel errors to HTTP
// responses. Having one table keeps status codes and error codes from
// drifting between call sites.
func writeError(c *gin.Context, err error) {
	status, code, message := http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"

	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		status, code, message = http.StatusUnauthorized, "AUTH_INVALID_CREDENTIALS", "invalid email or password"
	case errors.Is(err, common.ErrEmailExists):
		status, code, message = http.StatusConflict, "AUTH_EMAIL_EXISTS", "email already registered"
	case errors.Is(err, common.ErrInvalidEmail):
		status, code, message = http.StatusUnprocessableEntity, "AUTH_INVALID_EMAIL", "invalid email address"
	case errors.Is(err, common.ErrWeakPassword):
		status, code, message = http.StatusUnprocessableEntity, "AUTH_WEAK_PASSWORD", "password must be between 8 and 72 characters"
	case errors.Is(err, common.ErrTokenExpired):
		status, code, message = http.StatusUnauthorized, "AUTH_TOKEN_EXPIRED", "token has expired"
	case errors.Is(err, common.ErrTokenInvalid):
		status, code, message = http.StatusUnauthorized, "AUTH_TOKEN_INVALID", "token is invalid"
	case errors.Is(err, common.ErrTokenMissing):
		status, code, message = http.StatusUnauthorized, "AUTH_TOKEN_MISSING", "authorization token required"
	case errors.Is(err, common.ErrForbidden):
		status, code, message = http.StatusForbidden, "AUTH_FORBIDDEN", "not authorized to access this resource"
	case errors.Is(err, common.ErrNotFound):
		status, code, message = http.StatusNotFound, "TASK_NOT_FOUND", "task not found"
	case errors.Is(err, common.ErrValidation):
		status, code, message = http.StatusUnprocessableEntity, "VALIDATION_FAILED", err.Error()
	case errors.Is(err, common.ErrUnavailable):
		status, code, message = http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "storage temporarily unavailable"
	}

	c.AbortWithStatusJSON(status, errorBody{Error: code, Message: message, StatusCode: status})
}

// writeBadRequest reports an unreadable or invalid request body.
func writeBadRequest(c *gin.Context) {
	status := http.StatusUnprocessableEntity
	c.AbortWithStatusJSON(status, errorBody{
		Error:      "VALIDATION_FAILED",
		Message:    "request body could not be parsed",
		StatusCode: status,
	})
}
