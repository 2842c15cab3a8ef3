package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tactache/tactache-api/internal/services"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Authorization errors
	ErrCodeInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"

	// Validation errors
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeInvalidFormat = "INVALID_FORMAT"

	// Resource errors
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"

	// Service errors
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// APIError is the failure envelope shared by every endpoint
type APIError struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"error"`
	// Refresh asks the client to reload its view of the data
	Refresh bool        `json:"refresh,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(code, message string, details interface{}) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Response is the success envelope
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a 200 response wrapping data
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	err.Success = false
	c.JSON(statusCode, err)
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidFormat, message))
}

// BadRequestWithDetails sends a 400 response with details
func BadRequestWithDetails(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, NewAPIErrorWithDetails(ErrCodeInvalidFormat, message, details))
}

// Business sends a handled business failure. These are expected outcomes
// and use status 200 so clients read the envelope.
func Business(c *gin.Context, err *APIError) {
	RespondWithError(c, http.StatusOK, err)
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// FromService maps a service error to its envelope. The second result is
// false for storage failures, whose message must not reach the client.
func FromService(err error) (*APIError, bool) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) || svcErr.Kind == services.KindStorage {
		return nil, false
	}

	apiErr := NewAPIError(codeFor(svcErr.Kind), svcErr.Msg)
	apiErr.Refresh = svcErr.Refresh
	return apiErr, true
}

// RespondWithServiceError renders err and logs storage failures with their cause
func RespondWithServiceError(c *gin.Context, log *slog.Logger, err error) {
	if apiErr, ok := FromService(err); ok {
		Business(c, apiErr)
		return
	}

	log.ErrorContext(c.Request.Context(), "request failed",
		slog.String("method", c.Request.Method),
		slog.String("path", c.FullPath()),
		slog.Any("error", err),
	)
	InternalError(c, "")
}

func codeFor(kind services.Kind) string {
	switch kind {
	case services.KindValidation:
		return ErrCodeInvalidInput
	case services.KindNotFound:
		return ErrCodeNotFound
	case services.KindPermissionDenied:
		return ErrCodeInsufficientPermissions
	case services.KindConflict:
		return ErrCodeAlreadyExists
	case services.KindInvalidCredentials:
		return ErrCodeInvalidCredentials
	default:
		return ErrCodeInternalError
	}
}
