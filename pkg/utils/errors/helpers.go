package errors

import (
	"context"
	stderrors "errors"
)

// FromError converts any error to Errno.
// The first Errno in the chain wins; deadline and cancellation map to
// ErrRequestTimeout; anything else is wrapped as ErrInternal.
func FromError(err error) *Errno {
	if err == nil {
		return nil
	}
	var e *Errno
	if stderrors.As(err, &e) {
		return e
	}
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return ErrRequestTimeout.WithCause(err)
	}
	return ErrInternal.WithCause(err)
}

// IsCode checks if any Errno in the chain has the given error code.
func IsCode(err error, code int) bool {
	var e *Errno
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the error code from an error.
// Returns -1 if the error is not an Errno.
func GetCode(err error) int {
	var e *Errno
	if stderrors.As(err, &e) {
		return e.Code
	}
	return -1
}
