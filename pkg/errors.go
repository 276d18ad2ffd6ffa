package pkg

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var ExposeErrorDetails = false

func init() {
	if gin.DebugMode == gin.Mode() || gin.TestMode == gin.Mode() {
		ExposeErrorDetails = true
	}
}

// ErrorCode defines a standardized error code
type ErrorCode struct {
	Code    string
	Status  int
	Message string // default message
}

// WithStatus returns a copy of the code carrying the given transport status.
func (c ErrorCode) WithStatus(status int) ErrorCode {
	c.Status = status
	return c
}

var (
	// Simulation catalog
	ErrNotFoundCode     = ErrorCode{Code: "NOT_FOUND", Status: http.StatusNotFound, Message: "resource not found"}
	ErrForbiddenCode    = ErrorCode{Code: "FORBIDDEN", Status: http.StatusForbidden, Message: "not authorized"}
	ErrBadUserInputCode = ErrorCode{Code: "BAD_USER_INPUT", Status: http.StatusBadRequest, Message: "invalid input"}
	ErrBadRequestCode   = ErrorCode{Code: "BAD_REQUEST", Message: "bad request"} // status supplied per request
	ErrInternalCode     = ErrorCode{Code: "INTERNAL_SERVER_ERROR", Status: http.StatusInternalServerError, Message: "internal server error"}
	ErrNetworkCode      = ErrorCode{Code: "INTERNAL_SERVER_ERROR", Status: http.StatusRequestTimeout, Message: "network failure"}
	ErrGqlCode          = ErrorCode{Code: "GQL_ERROR", Status: http.StatusInternalServerError, Message: "custom error"}

	// Generic app
	ErrServerCode      = ErrorCode{Code: "APP_INTERNAL", Status: http.StatusInternalServerError, Message: "internal server error"}
	ErrRateLimitedCode = ErrorCode{Code: "RATE_LIMITED", Status: http.StatusTooManyRequests, Message: "rate limit exceeded"}
)

type AppError struct {
	Code    ErrorCode
	Message string // public-facing message
	Cause   error  // internal cause (wrapped)
}

func (e AppError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}
func (e AppError) Unwrap() error { return e.Cause }

func NewAppError(code ErrorCode, msg string, cause error) error {
	return AppError{Code: code, Message: msg, Cause: cause}
}

// ErrorResponse defines the standardized error response format
type ErrorResponse struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ToErrorResponse converts an error into an ErrorResponse, logging details and optionally exposing error messages.
// If the error is not an AppError, it is converted to a generic 500 error.
func ToErrorResponse(logger *zap.Logger, traceID string, err error) ErrorResponse {
	var appErr AppError
	if errors.As(err, &appErr) {
		resp := ErrorResponse{
			Status:  appErr.Code.Status,
			Code:    appErr.Code.Code,
			Message: appErr.Message,
		}
		if resp.Status == 0 {
			// Status 0 means the producer did not pick one; fall back to 500.
			resp.Status = http.StatusInternalServerError
		}
		logger.Error("application error", zap.String(TraceId, traceID), zap.Error(err))
		if ExposeErrorDetails {
			resp.Details = err.Error()
		}
		return resp
	}
	// Unknown error : 500
	resp := ErrorResponse{
		Status:  ErrServerCode.Status,
		Code:    ErrServerCode.Code,
		Message: ErrServerCode.Message,
	}
	logger.Error("application error", zap.String(TraceId, traceID), zap.Error(err))
	if ExposeErrorDetails {
		resp.Details = err.Error()
	}
	return resp
}
