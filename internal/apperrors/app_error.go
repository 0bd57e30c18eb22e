package apperrors

import "fmt"

// AppError carries an HTTP-ish status code alongside the message, so
// handlers can map repository/service failures to responses without string
// matching.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping an underlying error.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewBadRequestError creates a 400 AppError with no underlying cause.
func NewBadRequestError(message string) *AppError {
	return &AppError{Code: 400, Message: message}
}
