package jsonedit

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors for document editing.
var (
	// ErrInvalidArgument indicates a malformed call, such as an empty path.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrParse indicates non-blank text that is not a well-formed JSON object.
	ErrParse = errors.New("invalid document")

	// ErrStructuralConflict indicates a non-object value sits where the path
	// needs to descend.
	ErrStructuralConflict = errors.New("structural conflict")

	// ErrOutOfRange indicates a position that does not fit the text.
	ErrOutOfRange = errors.New("position out of range")
)

// parseHint is attached to every parse failure.
const parseHint = "fix the file or delete it manually"

// SyntaxError describes why a document could not be parsed.
// Line and Column are one-based; zero means the location is unknown.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return "invalid document: " + e.Msg
	}
	return fmt.Sprintf("invalid document at line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// Unwrap makes every SyntaxError match ErrParse.
func (e *SyntaxError) Unwrap() error {
	return ErrParse
}

// ConflictError reports the value that blocks a path.
type ConflictError struct {
	// Path is the prefix that resolved to a non-object value.
	Path Path
	// Kind is the kind of the blocking value.
	Kind Kind
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cannot descend into %q: existing value is %s, not an object", e.Path.String(), e.Kind)
}

// Unwrap makes every ConflictError match ErrStructuralConflict.
func (e *ConflictError) Unwrap() error {
	return ErrStructuralConflict
}

func newSyntaxError(line, column int, msg string) error {
	return errors.WithHint(&SyntaxError{Line: line, Column: column, Msg: msg}, parseHint)
}
