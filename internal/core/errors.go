package core

import (
	"errors"
	"net/http"
)

// Error is an operational error carrying an HTTP-equivalent status code.
// Unexpected store failures are returned as plain errors and propagate
// unchanged to the boundary.
type Error struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

func (e *Error) Error() string { return e.Message }

// NotFound signals that a referenced account, category or transaction
// does not exist.
func NotFound(message string) *Error {
	return &Error{Message: message, StatusCode: http.StatusNotFound}
}

// Conflict signals an operation rejected by a referential-integrity guard,
// such as deleting an account that still has transactions.
func Conflict(message string) *Error {
	return &Error{Message: message, StatusCode: http.StatusConflict}
}

// Validation signals malformed or incomplete input.
func Validation(message string) *Error {
	return &Error{Message: message, StatusCode: http.StatusUnprocessableEntity}
}

// AsError unwraps err into an *Error if it is operational.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsNotFound reports whether err is an operational not-found error.
func IsNotFound(err error) bool {
	e, ok := AsError(err)
	return ok && e.StatusCode == http.StatusNotFound
}

// IsConflict reports whether err is an operational conflict error.
func IsConflict(err error) bool {
	e, ok := AsError(err)
	return ok && e.StatusCode == http.StatusConflict
}
