package errors

// represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`             // error code (e.g., "not_found", "validation_error")
	Message string `json:"message"`           // user-friendly message
	Details string `json:"details,omitempty"` // optional details (sanitized in production)
}

// category and client-safe message of an error
type ErrorInfo struct {
	category  string
	sanitized string
}

// returns the error category
func (i ErrorInfo) Category() string {
	return i.category
}

// returns the message safe to show a client
func (i ErrorInfo) Sanitized() string {
	return i.sanitized
}
