package errors

import (
	"errors"
	"fmt"
)

// This package defines the error taxonomy shared by the API client and the
// controllers. The client normalizes every transport outcome into one of these
// shapes so callers can branch with `errors.Is()` / `errors.As()` without ever
// touching resty or net/http types.

var (
	// ErrTransport signifies that the request was sent but no response was
	// received (DNS failure, connection refused, connection reset, ...).
	// Surfaced to the user as a generic "temporary error, please retry".
	ErrTransport = errors.New("no response from server")

	// ErrTimeout signifies that the request exceeded the client's transport
	// timeout. Treated like a transport failure at the presentation layer but
	// kept distinct so callers may branch.
	ErrTimeout = errors.New("request timed out")

	// ErrValidation signifies that input failed client-side validation and
	// was rejected before any network traffic occurred.
	ErrValidation = errors.New("validation failed")
)

// APIError is returned when the server responded with a non-2xx status and a
// body. The server's `detail` field, when present, is preserved verbatim so
// the views can show it to the user.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// Detail extracts the server-supplied detail message from an error chain.
// The second return reports whether a non-empty detail was found.
func Detail(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail, true
	}
	return "", false
}
