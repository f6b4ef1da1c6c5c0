package models

import "net/http"

// HTTPError carries the status and client-facing message of a failed request.
// Err holds the internal cause; it is logged but never written to the response.
type HTTPError struct {
	Message string
	Status  int
	Err     error
}

func NewHTTPError(message string, status int) *HTTPError {
	return &HTTPError{Message: message, Status: status}
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Wrap returns a copy of e that records cause.
func (e *HTTPError) Wrap(cause error) *HTTPError {
	return &HTTPError{Message: e.Message, Status: e.Status, Err: cause}
}

func BadRequest(message string) *HTTPError {
	return NewHTTPError(message, http.StatusBadRequest)
}

func InternalError(message string, cause error) *HTTPError {
	return &HTTPError{Message: message, Status: http.StatusInternalServerError, Err: cause}
}
