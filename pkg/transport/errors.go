package transport

import (
	"errors"
	"fmt"
)

// Sentinel errors for the transport package.
var (
	// ErrRequest is returned for connection, TLS and stream failures.
	ErrRequest = errors.New("transport: request failed")

	// ErrTimeout is returned when connecting or reading exceeds its timeout.
	ErrTimeout = errors.New("transport: timeout")

	// ErrStatus is returned when the peer answers with a status other than 200.
	ErrStatus = errors.New("transport: unexpected status code")

	// ErrResponseTooLarge is returned when the response exceeds the configured limit.
	ErrResponseTooLarge = errors.New("transport: response too large")
)

// RemoteCallError is the only error type returned by Client.Post.
type RemoteCallError struct {
	// Kind is one of the package sentinel errors.
	Kind error

	// Err is the underlying cause. Nil for status failures.
	Err error

	// URL is the endpoint that was called.
	URL string

	// StatusCode is set when Kind is ErrStatus.
	StatusCode int
}

// Message returns the underlying cause as text, without the URL.
func (e *RemoteCallError) Message() string {
	switch {
	case e.Err != nil:
		return e.Err.Error()
	case e.StatusCode != 0:
		return fmt.Sprintf("StatusCode(%d) invalid", e.StatusCode)
	default:
		return e.Kind.Error()
	}
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%v: %s (url=%s)", e.Kind, e.Message(), e.URL)
}

func (e *RemoteCallError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// AsRemoteCallError extracts a *RemoteCallError from err if present.
func AsRemoteCallError(err error) (*RemoteCallError, bool) {
	var rce *RemoteCallError
	if errors.As(err, &rce) {
		return rce, true
	}
	return nil, false
}
