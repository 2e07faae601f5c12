package serverfn

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is a failure a server function reports to its caller as a
// response rather than as an invocation error.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Code, http.StatusText(e.Code), e.Message)
}

// Errorf returns a *StatusError with the given code and formatted message.
func Errorf(code int, format string, args ...interface{}) error {
	return &StatusError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsStatusError reports whether err carries a *StatusError.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
