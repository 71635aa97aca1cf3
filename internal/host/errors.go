package host

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures.
type Kind int

const (
	KindUnclassified Kind = iota
	KindPermissionDenied
	KindHostUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindPermissionDenied:
		return "permission denied"
	case KindHostUnavailable:
		return "host unavailable"
	default:
		return "unclassified"
	}
}

// Error is a classified failure of an engine operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrHostUnavailable)
// works for wrapped host failures.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	// ErrPermissionDenied is returned when starting without overlay permission.
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
	// ErrHostUnavailable is returned when the overlay window cannot be used.
	ErrHostUnavailable = &Error{Kind: KindHostUnavailable}
)

// Unavailable wraps err as a host failure of op.
func Unavailable(op string, err error) error {
	return &Error{Kind: KindHostUnavailable, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindUnclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnclassified
}
