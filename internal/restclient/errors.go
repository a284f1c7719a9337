package restclient

import (
	"errors"
	"fmt"
)

// ErrInvalidTenant is returned before any request is made when the
// company id is missing or non-positive
var ErrInvalidTenant = errors.New("invalid or missing company id")

// APIError is a logical failure: the server answered but reported
// success=false (or omitted the flag). The message is the server's
// error string when present, a generic fallback otherwise.
type APIError struct {
	Action  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Action, e.Message)
}

// TransportError is a network-level failure: the request itself never
// produced a usable response
type TransportError struct {
	Action string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Action, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
