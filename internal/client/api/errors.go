package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches HTTP 401 responses and authenticated calls made
	// without a token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnavailable matches network failures and gateway errors.
	ErrUnavailable = errors.New("server unavailable")
	// ErrNoToken is the cause of an authenticated request made without a session.
	ErrNoToken = errors.New("no bearer token")
)

// TransportError is a non-2xx response or a failed round trip. Msg carries the
// server's "msg" field when the body had one.
type TransportError struct {
	Status int
	Msg    string
	Err    error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("transport error: %v", e.Err)
	case e.Msg != "":
		return fmt.Sprintf("http %d: %s", e.Status, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("http %d: %v", e.Status, e.Err)
	default:
		return fmt.Sprintf("http %d", e.Status)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrUnavailable:
		return e.Status == 0 || e.Status == http.StatusBadGateway ||
			e.Status == http.StatusServiceUnavailable || e.Status == http.StatusGatewayTimeout
	}
	return false
}

// ApplicationError is a 2xx response whose envelope says success:false.
type ApplicationError struct {
	Msg string
}

func (e *ApplicationError) Error() string {
	if e.Msg == "" {
		return "request was not successful"
	}
	return e.Msg
}

// Message picks the user-facing text for err: the server's message when one
// was sent, fallback otherwise.
func Message(err error, fallback string) string {
	var appErr *ApplicationError
	if errors.As(err, &appErr) && appErr.Msg != "" {
		return appErr.Msg
	}
	var tErr *TransportError
	if errors.As(err, &tErr) && tErr.Msg != "" {
		return tErr.Msg
	}
	return fallback
}
