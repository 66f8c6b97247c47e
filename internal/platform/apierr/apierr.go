package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure kinds surfaced by the catalog managers.
const (
	CodeNotFound     = "not_found"
	CodeInUse        = "in_use"
	CodeBadRequest   = "bad_request"
	CodeStoreFailure = "store_failure"
)

type Error struct {
	Status  int
	Code    string
	Err     error
	Details any
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

func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

// InUse reports a deletion refused by a referential-integrity guard. details
// is returned to the caller alongside the error.
func InUse(details any, format string, args ...any) *Error {
	e := New(http.StatusConflict, CodeInUse, fmt.Errorf(format, args...))
	e.Details = details
	return e
}

func BadRequest(code string, format string, args ...any) *Error {
	if code == "" {
		code = CodeBadRequest
	}
	return New(http.StatusBadRequest, code, fmt.Errorf(format, args...))
}

// StoreFailure wraps an error coming out of the graph store.
func StoreFailure(err error) *Error {
	return New(http.StatusServiceUnavailable, CodeStoreFailure, err)
}

// Classify returns err as an *Error, treating anything untagged as a store
// failure.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return StoreFailure(err)
}

func Is(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
