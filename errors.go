package chankit

import (
	"errors"
	"fmt"
)

// ErrInvalidBoard means a board name is not on the site's board list.
var ErrInvalidBoard = errors.New("invalid board name")

// Is reports whether err is an instance of T for custom error types.
func Is[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

// StatusError is returned when the API answers with a status code the
// caller cannot handle.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// ResponseError is returned when a response body cannot be decoded.
type ResponseError struct {
	URL string
	Err error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("invalid response from %s: %s", e.URL, e.Err)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

// QueryError is returned when a search pattern does not compile.
type QueryError struct {
	Pattern string
	Err     error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid query %q: %s", e.Pattern, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
