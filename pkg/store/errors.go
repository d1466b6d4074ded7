package store

import (
	"fmt"

	"github.com/pkg/errors"
)

// NotFoundError returns a new ErrNotFound
func NotFoundError(what string) error {
	return ErrNotFound{what}
}

// ErrNotFound is the error returned when something requested could not be found.
type ErrNotFound struct {
	what string
}

func (err ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", err.what)
}

// IsNotFound returns true if the cause of err is ErrNotFound.
func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(ErrNotFound)
	return ok
}
