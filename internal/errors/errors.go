package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"

	"github.com/thoreinstein/rulecfg/pkg/jsonedit"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid input, configuration, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, permissions, etc.).
	ExitSystem = 2
)

// Sentinel errors for common failure conditions.
var (
	// ErrNotFound indicates the requested file or value was not found.
	ErrNotFound = crdb.New("not found")

	// ErrInvalidConfig indicates tool configuration validation failed.
	ErrInvalidConfig = crdb.New("invalid configuration")

	// ErrInvalidFile indicates a rule configuration file exists but cannot be parsed.
	ErrInvalidFile = crdb.New("configuration file is invalid")

	// ErrInvalidRule indicates a malformed rule code.
	ErrInvalidRule = crdb.New("invalid rule code")

	// ErrInvalidLevel indicates an unknown diagnostic level.
	ErrInvalidLevel = crdb.New("invalid level")

	// ErrConcurrentModification indicates a file kept changing while an edit was prepared.
	ErrConcurrentModification = crdb.New("file changed during edit")
)

// Wrapping helpers re-exported from github.com/cockroachdb/errors.
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	Is           = crdb.Is
	As           = crdb.As
	Mark         = crdb.Mark
	WithHint     = crdb.WithHint
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
// If err is nil, the returned ExitError will have a nil Err field.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// NewConfigError creates an ExitError with ExitUser code and a standard suggestion.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: "Run: rulecfg doctor",
	}
}

// FromEdit classifies an error returned while editing file and attaches the
// matching exit code and suggestion. Errors that are already ExitErrors, and
// nil, are returned unchanged.
func FromEdit(err error, file string) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if crdb.As(err, &exitErr) {
		return err
	}

	switch {
	case crdb.Is(err, jsonedit.ErrParse), crdb.Is(err, ErrInvalidFile):
		return NewUserError(err,
			fmt.Sprintf("%s already exists and is invalid. Fix it or delete it manually, then try again", file))
	case crdb.Is(err, jsonedit.ErrStructuralConflict):
		return NewUserError(err,
			fmt.Sprintf("A value in %s blocks the path; edit the file by hand", file))
	case crdb.Is(err, jsonedit.ErrInvalidArgument), crdb.Is(err, ErrInvalidRule), crdb.Is(err, ErrInvalidLevel):
		return NewUserError(err, "Run with --help to see valid arguments")
	case crdb.Is(err, jsonedit.ErrOutOfRange), crdb.Is(err, ErrConcurrentModification):
		return NewSystemError(err, "The file changed while it was being edited; run the command again")
	default:
		return NewSystemError(err, "")
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}
