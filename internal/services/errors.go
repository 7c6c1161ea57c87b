package services

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrMalformedResponse marks a backend body that could not be parsed into
	// the expected shape.
	ErrMalformedResponse = errors.New("malformed response")

	ErrCameraNotReady     = errors.New("camera not ready")
	ErrLoginInProgress    = errors.New("login already in progress")
	ErrAlreadyLoggedIn    = errors.New("session already authenticated")
	ErrNotAuthenticated   = errors.New("session not authenticated")
	ErrSubmissionInFlight = errors.New("submission already in flight")
	ErrNoFileSelected     = errors.New("no file selected")
	ErrUnknownTab         = errors.New("unknown tab")
)

// RequestError reports a transport failure or a non-2xx status from the
// backend.
type RequestError struct {
	Endpoint   Endpoint
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request %s: http %d: %s", e.Endpoint, e.StatusCode, strings.TrimSpace(e.Body))
	}
	return fmt.Sprintf("request %s: %v", e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ReadError reports a local file that could not be read.
type ReadError struct {
	Name string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Name, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// ErrorKind names the error class for logs, metrics and presentation.
func ErrorKind(err error) string {
	var reqErr *RequestError
	var readErr *ReadError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &readErr):
		return "read_error"
	case errors.As(err, &reqErr):
		return "request_error"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	default:
		return "error"
	}
}

// UserMessage returns the hint attached for presentation, falling back to
// the error text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if hint := errors.FlattenHints(err); hint != "" {
		return hint
	}
	return err.Error()
}
