package fetcher

import (
	"errors"
	"fmt"
)

// Fetch errors.
var (
	// ErrTransport matches every *TransportError via errors.Is.
	ErrTransport = errors.New("transport error")

	// ErrResponse matches every *ResponseError via errors.Is.
	ErrResponse = errors.New("unsuccessful response status")

	// ErrDisallowed is returned by RobotsGuard for URLs robots.txt forbids.
	ErrDisallowed = errors.New("disallowed by robots.txt")

	// ErrInvalidProxyAddress is returned when the proxy address is not "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)

// TransportError means the request could not be completed:
// DNS failure, refused connection, timeout, or a broken body.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap exposes both ErrTransport and the underlying cause.
func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// ResponseError means the server answered with a non-success status.
type ResponseError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *ResponseError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d", e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: unexpected status %s", e.URL, status)
}

func (e *ResponseError) Unwrap() error {
	return ErrResponse
}
