package apierr

import (
	"errors"
	"fmt"
	"net/http"

	errs "github.com/yungbote/codepath-backend/internal/pkg/errors"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

var errTryAgain = errors.New("temporarily unable to complete the request, please try again")
var errInternal = errors.New("internal error")

// FromError maps a service error onto its client-visible form. Client errors
// keep their detail; server-side kinds get a generic message so nothing internal leaks.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	switch errs.KindOf(err) {
	case errs.KindUnauthenticated:
		return New(http.StatusUnauthorized, string(errs.KindUnauthenticated), err)
	case errs.KindNotFound:
		return New(http.StatusNotFound, string(errs.KindNotFound), err)
	case errs.KindInvalidArgument:
		return New(http.StatusBadRequest, string(errs.KindInvalidArgument), err)
	case errs.KindInconsistent:
		return New(http.StatusInternalServerError, string(errs.KindInconsistent), errTryAgain)
	case errs.KindUnavailable:
		return New(http.StatusServiceUnavailable, string(errs.KindUnavailable), errTryAgain)
	default:
		return New(http.StatusInternalServerError, string(errs.KindInternal), errInternal)
	}
}
