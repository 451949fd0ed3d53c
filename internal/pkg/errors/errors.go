package errors

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means no verified learner identity was supplied.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrNotFound is a generic sentinel for missing catalog entities.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInconsistent flags catalog data that contradicts itself (e.g. a lesson absent from its own topic).
	ErrInconsistent = errors.New("inconsistent catalog data")
	// ErrUnavailable means a dependency timed out or could not be reached.
	ErrUnavailable = errors.New("unavailable")
)

// Kind identifies which sentinel an error wraps.
type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindNotFound        Kind = "not_found"
	KindInvalidArgument Kind = "invalid_argument"
	KindInconsistent    Kind = "inconsistent"
	KindUnavailable     Kind = "unavailable"
	KindInternal        Kind = "internal"
)

// KindOf classifies err. Context deadlines count as unavailable.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrInconsistent):
		return KindInconsistent
	case errors.Is(err, ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return KindUnavailable
	default:
		return KindInternal
	}
}

// Invalid builds an InvalidArgument error naming the offending field.
func Invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidArgument, field, fmt.Sprintf(format, args...))
}

// NotFound builds a NotFound error for the given entity and key.
func NotFound(entity string, key any) error {
	return fmt.Errorf("%s %v: %w", entity, key, ErrNotFound)
}
