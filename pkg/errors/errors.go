package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies failures so callers can decide whether the run can
// continue past them.
type ErrorType string

const (
	// Fatal before any posting starts.
	ErrorTypeConfig ErrorType = "config"
	ErrorTypeInput  ErrorType = "input"
	ErrorTypeAuth   ErrorType = "auth"

	// Per-item: the batch continues with the remaining jobs.
	ErrorTypeMetadata       ErrorType = "metadata"
	ErrorTypeUploadRejected ErrorType = "upload_rejected"
	ErrorTypeWaitTimeout    ErrorType = "wait_timeout"
	ErrorTypeBoardNotFound  ErrorType = "board_not_found"
	ErrorTypeSubmission     ErrorType = "submission"

	// Fatal mid-batch: the browser session itself is gone.
	ErrorTypeSession ErrorType = "session"

	ErrorTypeUnknown ErrorType = "unknown"
)

// Error carries a failure type alongside the message.
type Error struct {
	Type    ErrorType
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// New creates a typed error.
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Newf creates a typed error with a formatted message.
func Newf(errorType ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: errorType, Message: fmt.Sprintf(format, args...)}
}

// TypeOf returns the ErrorType carried by err, or ErrorTypeUnknown when err
// carries none.
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsType reports whether err carries the given error type.
func IsType(err error, errorType ErrorType) bool {
	return err != nil && TypeOf(err) == errorType
}

// IsFatal reports whether an error type must abort the run: either nothing
// has been posted yet (startup errors) or nothing more can be (session lost).
func IsFatal(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeConfig, ErrorTypeInput, ErrorTypeAuth, ErrorTypeSession:
		return true
	default:
		return false
	}
}

// IsPerItem reports whether an error type is recoverable at the batch level:
// the offending job fails but the remaining jobs still run.
func IsPerItem(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeMetadata, ErrorTypeUploadRejected, ErrorTypeWaitTimeout,
		ErrorTypeBoardNotFound, ErrorTypeSubmission:
		return true
	default:
		return false
	}
}
