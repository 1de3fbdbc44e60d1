package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrUnknownTimeZone = errors.New("unknown time zone")
	ErrMissingConfig   = errors.New("missing configuration")
	ErrRemoteRejected  = errors.New("remote api rejected request")
	ErrTransport       = errors.New("remote api unreachable")
)

// ValidationError is bad or missing user input. Reason is safe to show to the caller.
type ValidationError struct {
	Reason string
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// RemoteError is a non-2xx answer from the remote API. Body is kept verbatim.
type RemoteError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: remote api returned %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *RemoteError) Is(target error) bool { return target == ErrRemoteRejected }

// TransportError is a failure to get any answer from the remote API.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// IsNotFound reports whether err is the remote API answering 404.
func IsNotFound(err error) bool {
	var remote *RemoteError
	return errors.As(err, &remote) && remote.StatusCode == http.StatusNotFound
}
