package errors

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"codeberg.org/algopatterns/dedup/internal/logger"
)

// Error Handling Guidelines:
//
// For HTTP REST handlers:
//   - Use errors.InternalError(), errors.BadRequest(), etc. for critical errors
//     These functions handle both logging and HTTP response automatically
//   - Use errors.Respond() when the error comes from a service and its kind is not known up front
//   - Never call both logger.ErrorErr() and errors.InternalError() for the same error
//
// For services/repositories/internal packages:
//   - Return wrapped errors with context using fmt.Errorf("context: %w", err)
//   - Let the caller (handler) decide how to log and respond
//   - Do not log errors in non-handler code (avoid double logging)

// UUID format: xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx (36 characters)
var uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// standard error codes
const (
	CodeNotFound           = "not_found"
	CodeValidationError    = "validation_error"
	CodeServerError        = "server_error"
	CodeBadRequest         = "bad_request"
	CodeTooManyRequests    = "too_many_requests"
	CodePayloadTooLarge    = "payload_too_large"
	CodePassNotFound       = "pass_not_found"
	CodeServiceDegraded    = "service_degraded"
	CodeRequestCanceled    = "request_canceled"
	CodeUnknownStrategy    = "unknown_strategy"
	CodeBackendUnavailable = "backend_unavailable"
)

// returns a 404 not found error
func NotFound(c *gin.Context, resource string) {
	message := "resource not found"

	if resource != "" {
		message = resource + " not found"
	}

	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:   CodeNotFound,
		Message: message,
	})
}

// returns a 404 error for an unknown or expired pass
func PassNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:   CodePassNotFound,
		Message: "dedup pass not found or expired",
	})
}

// returns a 400 bad request error
func BadRequest(c *gin.Context, message string, err error) {
	if message == "" {
		message = "invalid request"
	}

	response := ErrorResponse{
		Error:   CodeBadRequest,
		Message: message,
	}

	// add details if error provided
	if err != nil {
		response.Details = sanitizeError(err)
	}

	c.JSON(http.StatusBadRequest, response)
}

// returns a 400 bad request error for validation failures
func ValidationError(c *gin.Context, err error) {
	message := "validation failed"
	details := ""

	if err != nil {
		details = sanitizeError(err)
		// extract a more specific message from validation errors if available
		if strings.Contains(err.Error(), "binding") || strings.Contains(err.Error(), "validation") {
			message = "request validation failed"
		}
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   CodeValidationError,
		Message: message,
		Details: details,
	})
}

// returns a 400 error for strategy names outside exact, fuzzy and soft
func UnknownStrategy(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   CodeUnknownStrategy,
		Message: "strategy must be one of exact, fuzzy, soft",
		Details: sanitizeError(err),
	})
}

// returns a 413 error when a batch exceeds the configured document cap
func PayloadTooLarge(c *gin.Context, message string) {
	if message == "" {
		message = "too many documents in one request"
	}

	c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
		Error:   CodePayloadTooLarge,
		Message: message,
	})
}

// returns a 500 internal server error
func InternalError(c *gin.Context, message string, err error) {
	if message == "" {
		message = "an error occurred"
	}

	// log full error server-side with context
	logger.ErrorErr(err, message,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"pass_id", c.Param("id"),
	)

	// return sanitized error to client
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   CodeServerError,
		Message: message,
		Details: sanitizeError(err),
	})
}

// returns a 503 error when a storage backend is unreachable
func ServiceDegraded(c *gin.Context, message string, err error) {
	if message == "" {
		message = "storage backend unavailable"
	}

	logger.ErrorErr(err, message,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)

	c.JSON(http.StatusServiceUnavailable, ErrorResponse{
		Error:   CodeServiceDegraded,
		Message: message,
		Details: sanitizeError(err),
	})
}

// returns a 429 too many requests error
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "too many requests"
	}

	c.JSON(http.StatusTooManyRequests, ErrorResponse{
		Error:   CodeTooManyRequests,
		Message: message,
	})
}

// maps an error returned by a service onto the matching response
func Respond(c *gin.Context, message string, err error) {
	switch ClassifyError(err).Category() {
	case CategoryUnknownStrategy:
		UnknownStrategy(c, err)
	case CategoryValidation:
		ValidationError(c, err)
	case CategoryBackend:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   CodeBackendUnavailable,
			Message: "hashing backend unavailable",
			Details: sanitizeError(err),
		})
	case CategoryPassNotFound:
		PassNotFound(c)
	case CategoryNotFound:
		NotFound(c, "")
	case CategoryTimeout:
		c.JSON(http.StatusRequestTimeout, ErrorResponse{
			Error:   CodeRequestCanceled,
			Message: "request canceled",
			Details: sanitizeError(err),
		})
	case CategoryDatabase, CategoryNetwork:
		ServiceDegraded(c, "", err)
	default:
		InternalError(c, message, err)
	}
}

// sanitizes error messages for production
func sanitizeError(err error) string {
	return ClassifyError(err).Sanitized()
}

// validates a UUID string format
func IsValidUUID(id string) bool {
	if id == "" {
		return false
	}

	return uuidRegex.MatchString(strings.ToLower(id))
}

// validates a UUID parameter from the request path
func ValidatePathUUID(c *gin.Context, paramName string) (string, bool) {
	id := c.Param(paramName)

	if id == "" {
		BadRequest(c, "missing "+paramName, nil)
		return "", false
	}

	if !IsValidUUID(id) {
		PassNotFound(c)
		return "", false
	}

	return id, true
}
