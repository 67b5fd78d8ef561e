package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// Is matches any ErrorWithStatusCode carrying the same status code,
// so errors.Is(err, ErrNotFound) holds for every "not found" message.
func (e *ErrorWithStatusCode) Is(target error) bool {
	t, ok := target.(*ErrorWithStatusCode)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

var (
	ErrNotFound   = &ErrorWithStatusCode{Message: "Not found", StatusCode: http.StatusNotFound}
	ErrBadRequest = &ErrorWithStatusCode{Message: "Bad request", StatusCode: http.StatusBadRequest}
)

func NotFound(format string, args ...any) error {
	return &ErrorWithStatusCode{Message: fmt.Sprintf(format, args...), StatusCode: http.StatusNotFound}
}

func BadRequest(format string, args ...any) error {
	return &ErrorWithStatusCode{Message: fmt.Sprintf(format, args...), StatusCode: http.StatusBadRequest}
}

// StatusCode returns the http status attached to err, 500 if there is none.
func StatusCode(err error) int {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}
