// Package errs defines the error taxonomy shared by the directory core.
// Every failure surfaced to a caller is classified by Kind so the caller
// can distinguish its own faults (validation, unknown ids, name conflicts,
// unrecognized documents) from storage failures.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind int

const (
	// Validation marks malformed or structurally invalid input. Caller's
	// fault, never retried.
	Validation Kind = iota + 1
	// NotFound marks a reference to an id that does not exist.
	NotFound
	// Conflict marks a unique-name collision on category create or rename.
	Conflict
	// Format marks an import document matching no recognized shape.
	Format
	// Storage marks an underlying transaction failure, surfaced as-is after
	// the enclosing transaction rolled back.
	Storage
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not found"
	case Conflict:
		return "conflict"
	case Format:
		return "format"
	case Storage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error is a classified error. It wraps an optional cause so errors.Is and
// errors.As keep working through it.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" && e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validationf creates a Validation error.
func Validationf(format string, args ...any) error {
	return &Error{Kind: Validation, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundf creates a NotFound error.
func NotFoundf(format string, args ...any) error {
	return &Error{Kind: NotFound, Msg: fmt.Sprintf(format, args...)}
}

// Conflictf creates a Conflict error.
func Conflictf(format string, args ...any) error {
	return &Error{Kind: Conflict, Msg: fmt.Sprintf(format, args...)}
}

// Formatf creates a Format error.
func Formatf(format string, args ...any) error {
	return &Error{Kind: Format, Msg: fmt.Sprintf(format, args...)}
}

// StorageErr wraps an underlying storage failure. Returns nil for a nil
// cause, and leaves already-classified errors untouched so domain errors
// propagate out of transactional closures unchanged.
func StorageErr(msg string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: Storage, Msg: msg, Err: err}
}

// IsKind reports whether err is classified with the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool { return IsKind(err, NotFound) }

// IsValidation reports whether err is a Validation error.
func IsValidation(err error) bool { return IsKind(err, Validation) }

// IsConflict reports whether err is a Conflict error.
func IsConflict(err error) bool { return IsKind(err, Conflict) }

// IsFormat reports whether err is a Format error.
func IsFormat(err error) bool { return IsKind(err, Format) }
