package gateway

import (
	"errors"
	"fmt"
)

// TransportError means the request never completed: DNS failure, refused
// connection, cancelled context. The upstream was not reached or did not
// answer.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ResponseError means the upstream answered with a non-2xx status. No error
// body is parsed; the status code is all the client carries.
type ResponseError struct {
	Op         string
	StatusCode int
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: upstream returned status %d", e.Op, e.StatusCode)
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsResponse reports whether err is (or wraps) a ResponseError, returning the
// status code when it is.
func IsResponse(err error) (int, bool) {
	var re *ResponseError
	if errors.As(err, &re) {
		return re.StatusCode, true
	}
	return 0, false
}
