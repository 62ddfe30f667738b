package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport matches any *TransportError.
	ErrTransport = errors.New("transport failure")
	// ErrRemoteRejected matches any *RemoteRejectedError.
	ErrRemoteRejected = errors.New("remote rejected request")
)

// TransportError reports a failure to complete the request or read its body.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is reports ErrTransport so callers need not know the concrete type.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// RemoteRejectedError reports a completed request with a non-success status.
type RemoteRejectedError struct {
	URL    string
	Status int
}

func (e *RemoteRejectedError) Error() string {
	return fmt.Sprintf("fetching %s: HTTP %d %s", e.URL, e.Status, http.StatusText(e.Status))
}

func (e *RemoteRejectedError) Is(target error) bool { return target == ErrRemoteRejected }
