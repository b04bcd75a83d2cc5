package errors

import (
	"errors"
	"fmt"
)

// New returns a new error with the given message.
func New(msg string) error {
	return errors.New(msg)
}

// ContextError wraps an error with a short description of the operation that
// failed. The chain of contexts is included in the error message so that
// operators can tell where in an operation the root cause occurred.
type ContextError struct {
	Context string
	Err     error
}

func (err ContextError) Error() string {
	return fmt.Sprintf("%s: %s", err.Context, err.Err)
}

// WithContext annotates err with the given context. It returns nil if err is
// nil so that it can be used to directly wrap function returns.
func WithContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return ContextError{Context: context, Err: err}
}

// RootCause unwinds any context wrapping and returns the underlying error.
func RootCause(err error) error {
	for {
		ctxErr, ok := err.(ContextError)
		if !ok {
			return err
		}
		err = ctxErr.Err
	}
}

// FriendlyError is an error whose message is meant to be read by users
// directly, without any wrapping context.
type FriendlyError struct {
	Message string
}

// NewFriendlyError creates a new FriendlyError according to the given format.
func NewFriendlyError(format string, args ...interface{}) FriendlyError {
	return FriendlyError{Message: fmt.Sprintf(format, args...)}
}

func (err FriendlyError) Error() string {
	return err.Message
}

func (err FriendlyError) FriendlyMessage() string {
	return err.Message
}

// friendlier is implemented by errors that have a message meant for direct
// user consumption.
type friendlier interface {
	FriendlyMessage() string
}

// GetPrintableMessage returns the message that should be shown to the user
// for the given error. If any error in the chain is friendly, its message is
// used. Otherwise the full error string is returned.
func GetPrintableMessage(err error) string {
	for curr := err; curr != nil; {
		if friendly, ok := curr.(friendlier); ok {
			return friendly.FriendlyMessage()
		}

		ctxErr, ok := curr.(ContextError)
		if !ok {
			break
		}
		curr = ctxErr.Err
	}

	if err == nil {
		return ""
	}
	return err.Error()
}
