package core

import (
	"errors"
	"fmt"
)

// ErrCommandNotFound is returned when an interaction names a command that is not registered
var ErrCommandNotFound = errors.New("command not found")

// ErrUnknownServerKey is returned when a button targets a server other than the monitored one
var ErrUnknownServerKey = errors.New("unknown server key")

// HandlerError wraps a failure raised while a command or button handler was executing
type HandlerError struct {
	Handler   string
	Err       error
	Recovered bool // true when the failure was a recovered panic
}

func (e *HandlerError) Error() string {
	if e.Recovered {
		return fmt.Sprintf("handler %s panicked: %v", e.Handler, e.Err)
	}
	return fmt.Sprintf("handler %s failed: %v", e.Handler, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// IsHandlerError checks if an error is a HandlerError
func IsHandlerError(err error) (*HandlerError, bool) {
	var handlerErr *HandlerError
	if errors.As(err, &handlerErr) {
		return handlerErr, true
	}
	return nil, false
}
