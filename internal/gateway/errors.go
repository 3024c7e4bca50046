package gateway

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnreachable matches failures where no HTTP response arrived.
	ErrUnreachable = errors.New("gateway: backend unreachable")
	// ErrRequestFailed matches non-2xx responses and 2xx responses whose
	// body is not usable JSON.
	ErrRequestFailed = errors.New("gateway: request failed")
)

// UnreachableError wraps a transport-level failure.
type UnreachableError struct {
	Method string
	Path   string
	Err    error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("gateway: %s %s: unreachable: %v", e.Method, e.Path, e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrUnreachable) match.
func (e *UnreachableError) Is(target error) bool { return target == ErrUnreachable }

// RequestFailedError carries the status and body of a response the backend
// answered but the gateway cannot use. Reason is empty for plain non-2xx
// statuses and says what was wrong with a 2xx body otherwise.
type RequestFailedError struct {
	Method string
	Path   string
	Status int
	Body   []byte
	Reason string
}

func (e *RequestFailedError) Error() string {
	status := fmt.Sprintf("status %d", e.Status)
	if e.Reason != "" {
		status += " (" + e.Reason + ")"
	}
	body := strings.TrimSpace(string(e.Body))
	if len(body) > 200 {
		body = body[:200] + "…"
	}
	if body == "" {
		return fmt.Sprintf("gateway: %s %s: %s", e.Method, e.Path, status)
	}
	return fmt.Sprintf("gateway: %s %s: %s: %s", e.Method, e.Path, status, body)
}

// Is lets errors.Is(err, ErrRequestFailed) match.
func (e *RequestFailedError) Is(target error) bool { return target == ErrRequestFailed }

// StatusOf extracts the HTTP status from a RequestFailedError anywhere in
// err's chain.
func StatusOf(err error) (int, bool) {
	var failed *RequestFailedError
	if errors.As(err, &failed) {
		return failed.Status, true
	}
	return 0, false
}
