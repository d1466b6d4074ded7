package platform

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound is the error returned when something requested could not be found on the platform.
type ErrNotFound struct {
	what string
}

func (err ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", err.what)
}

// HTTPError is returned when the platform answers with an unexpected status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (err HTTPError) Error() string {
	return fmt.Sprintf("platform returned %d: %s", err.StatusCode, err.Message)
}

// TransportError is returned when the platform could not be reached or refused the credentials.
// The operation can be retried.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (err *TransportError) Error() string {
	if err.StatusCode != 0 {
		return fmt.Sprintf("cannot %s: status %d: %v", err.Op, err.StatusCode, err.Err)
	}
	return fmt.Sprintf("cannot %s: %v", err.Op, err.Err)
}

// Cause returns the underlying error.
func (err *TransportError) Cause() error {
	return err.Err
}

// Unwrap returns the underlying error.
func (err *TransportError) Unwrap() error {
	return err.Err
}

// IsNotFound returns true if the cause of err is ErrNotFound.
func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(ErrNotFound)
	return ok
}

// IsTransport returns true if err is or wraps a TransportError.
func IsTransport(err error) bool {
	var terr *TransportError
	return errors.As(err, &terr)
}
