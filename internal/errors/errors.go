// Package errors defines the error taxonomy shared by the filefusion
// components and the exit code conventions used by the CLI.
//
// Failures are classified by marking the underlying error with one of the
// sentinels below, so callers can test the category with [Is] no matter how
// many layers of context were added on the way up:
//
//	stats, err := inspector.Inspect(ctx, path)
//	if errors.Is(err, errors.ErrNotFound) {
//	    // tell the user the folder is gone
//	}
package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Exit codes for the CLI.
const (
	ExitSuccess = 0
	ExitUser    = 1
	ExitSystem  = 2
)

// Sentinel categories.
var (
	// ErrParse marks a document that could not be decoded.
	ErrParse = crdb.New("parse error")

	// ErrIO marks a configuration file that could not be read or written.
	ErrIO = crdb.New("config i/o error")

	// ErrNotFound marks an inspect target that is missing or not a directory.
	ErrNotFound = crdb.New("folder not found")

	// ErrWrite marks a failed customization write or reset.
	ErrWrite = crdb.New("customization write failed")

	// ErrInvalidFormat marks a malformed color string.
	ErrInvalidFormat = crdb.New("invalid color format")

	// ErrInvalidPath marks an empty or unusable path argument.
	ErrInvalidPath = crdb.New("invalid path")
)

// Mark attaches category to err while keeping err's message.
func Mark(err error, category error) error {
	if err == nil {
		return nil
	}
	return crdb.Mark(err, category)
}

// Wrapf adds context to err and tags it with category.
func Wrapf(err error, category error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return crdb.Mark(crdb.Wrapf(err, format, args...), category)
}

// Newf builds a fresh error tagged with category.
func Newf(category error, format string, args ...interface{}) error {
	return crdb.Mark(crdb.Newf(format, args...), category)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return crdb.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return crdb.As(err, target)
}

// ExitError wraps an error with an exit code and an optional hint for the user.
type ExitError struct {
	Err        error
	Code       int
	Suggestion string
}

// NewUserError returns an ExitError with ExitUser.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitUser, Suggestion: suggestion}
}

// NewSystemError returns an ExitError with ExitSystem.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitSystem, Suggestion: suggestion}
}

// Classify maps a categorized error onto an ExitError. Configuration and
// write failures are system errors; everything else is blamed on the input.
func Classify(err error) *ExitError {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if As(err, &exitErr) {
		return exitErr
	}
	switch {
	case Is(err, ErrIO):
		return NewSystemError(err, "Check that the config directory is writable")
	case Is(err, ErrWrite):
		return NewSystemError(err, "Check that the folder exists and is writable")
	case Is(err, ErrNotFound):
		return NewUserError(err, "Pass an existing folder path")
	case Is(err, ErrInvalidFormat):
		return NewUserError(err, "Use #rgb or #rrggbb")
	default:
		return NewUserError(err, "")
	}
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
