package switching

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every failure returned by this module and by the
// estimator matches exactly one of them under errors.Is.
var (
	// ErrInvalidArgument is returned for a nil circuit, a nil table or a
	// non-positive pattern count.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIO is returned when a .switch file cannot be opened, written or read.
	ErrIO = errors.New("switching file I/O failed")

	// ErrParse is returned for a malformed, misplaced or missing record.
	ErrParse = errors.New("switching file parse failed")

	// ErrOutOfMemory is returned when simulation storage would exceed the
	// configured budget.
	ErrOutOfMemory = errors.New("out of memory")
)

// IOError reports the path and operation that failed.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }

// ParseError reports which record failed and the raw line that was read.
// Index is the zero-based record position within its section; Line is empty
// when the file ended early.
type ParseError struct {
	Section string
	Index   int
	Line    string
	Reason  string
}

func (e *ParseError) Error() string {
	if e.Line == "" {
		return fmt.Sprintf("%s %d: %s", e.Section, e.Index, e.Reason)
	}
	return fmt.Sprintf("%s %d: %s: %q", e.Section, e.Index, e.Reason, e.Line)
}

func (e *ParseError) Unwrap() error { return ErrParse }
