package dto

import "time"

// ErrorResponse is the standardized JSON error envelope returned by every
// endpoint on failure.
//
// Fields:
//   - Message: human-readable description of what went wrong.
//   - ErrorDetails: underlying error text, when one exists.
//   - Timestamp: when the error response was built.
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid request body"`
	ErrorDetails string    `json:"error,omitempty" example:"unexpected EOF"`
	Timestamp    time.Time `json:"timestamp"`
}

// Error implements the error interface so an ErrorResponse can travel through
// gin's error list and be rendered by the ErrorHandler middleware.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails != "" {
		return e.Message + ": " + e.ErrorDetails
	}
	return e.Message
}

// NewErrorResponse builds an ErrorResponse from a message and an optional
// wrapped error.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
