package config

import (
	"errors"
	"fmt"
)

// ErrMissing is wrapped by Error when a required value is not set.
var ErrMissing = errors.New("required value is not set")

// Error is returned for any configuration that is missing, malformed or of
// the wrong type. Key is empty when the failing key could not be determined.
type Error struct {
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid configuration %q: %v", e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
