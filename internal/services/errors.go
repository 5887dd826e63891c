package services

import "net/http"

// RelayError classifies a pipeline failure so handlers can map it onto an
// HTTP status: 4xx for caller-supplied defects, 5xx for remote-service or
// configuration defects.
type RelayError struct {
	Code    int
	Message string
	Err     error
}

func (e *RelayError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *RelayError) Unwrap() error {
	return e.Err
}

// BadRequest builds a caller-defect error (wrong input, missing file part).
func BadRequest(message string) *RelayError {
	return &RelayError{Code: http.StatusBadRequest, Message: message}
}

// RemoteFailure builds a remote-service defect error. The message is
// surfaced to the caller verbatim, so include the remote diagnostic text.
func RemoteFailure(message string, err error) *RelayError {
	if err != nil {
		message = message + ": " + err.Error()
	}
	return &RelayError{Code: http.StatusInternalServerError, Message: message, Err: err}
}
