package model

import (
	"errors"
	"fmt"

	"github.com/cayleygraph/quad"

	"github.com/imlapps/sdapps-sub000/internal/term"
)

var (
	// ErrNoMatchingKind is returned when every alternative of a decode
	// fallback chain rejected the input.
	ErrNoMatchingKind = errors.New("no matching kind")

	// ErrUnknownKind is returned when a kind name is not registered.
	ErrUnknownKind = errors.New("unknown kind")
)

// ValidationError reports a JSON document that failed shape validation
// before any field was read.
type ValidationError struct {
	Kind string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s document: %v", e.Kind, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ValueError reports a field that is missing, has the wrong term type or
// cannot be coerced.
type ValueError struct {
	Focus     quad.Value
	Field     string
	Predicate quad.IRI
	Reason    string
	Err       error
}

func (e *ValueError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Field, e.Reason)
	if e.Focus != nil {
		msg = fmt.Sprintf("%s %s", term.Key(e.Focus), msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValueError) Unwrap() error { return e.Err }

// TypeMismatchError reports a resource without the expected type statement,
// a document with the wrong discriminator, or a closed enumeration member
// outside the permitted set.
type TypeMismatchError struct {
	Focus    quad.Value
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	if e.Focus == nil {
		return fmt.Sprintf("unexpected type: expected %s, got %s", e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s: unexpected type: expected %s, got %s", term.Key(e.Focus), e.Expected, e.Actual)
}

// NoMatchError is returned by a fallback chain when no alternative
// accepted the input. Cause holds the most specific failure, if any.
type NoMatchError struct {
	Kind  string
	Focus quad.Value
	Cause error
}

func (e *NoMatchError) Error() string {
	msg := fmt.Sprintf("%s for %s", ErrNoMatchingKind, e.Kind)
	if e.Focus != nil {
		msg = term.Key(e.Focus) + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *NoMatchError) Is(target error) bool { return target == ErrNoMatchingKind }

func (e *NoMatchError) Unwrap() error { return e.Cause }

// isRejection reports whether err only says that an alternative did not
// apply, as opposed to an alternative that applied and then failed.
func isRejection(err error) bool {
	switch err.(type) {
	case *TypeMismatchError, *NoMatchError:
		return true
	default:
		return false
	}
}
