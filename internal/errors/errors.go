// Package errors provides custom error types for the guide service clients.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors for common cases
var (
	ErrEmptyReply     = errors.New("guide returned an empty reply")
	ErrUnknownBackend = errors.New("unknown guide backend")
	ErrMissingAPIKey  = errors.New("missing API key")
	ErrInvalidReply   = errors.New("invalid reply format")
)

// maxBodyLen caps the response body kept for diagnostics.
const maxBodyLen = 512

// GuideError is the base error carried by every guide client failure.
type GuideError struct {
	Operation  string
	Endpoint   string
	HTTPStatus int
	Body       string
	Cause      error
}

func (e *GuideError) Error() string {
	msg := e.Operation
	if e.Endpoint != "" {
		msg = fmt.Sprintf("%s at %s", msg, e.Endpoint)
	}
	if e.HTTPStatus > 0 {
		msg = fmt.Sprintf("%s [%d]", msg, e.HTTPStatus)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *GuideError) Unwrap() error {
	return e.Cause
}

// WithBody attaches a truncated response body.
func (e *GuideError) WithBody(body string) *GuideError {
	if len(body) > maxBodyLen {
		body = body[:maxBodyLen] + "..."
	}
	e.Body = body
	return e
}

// NewGuideError creates a GuideError for an operation that failed with cause.
func NewGuideError(operation string, cause error) *GuideError {
	return &GuideError{Operation: operation, Cause: cause}
}

// NetworkError represents a transport failure before any HTTP status was seen
type NetworkError struct {
	GuideError
}

// NewNetworkError creates a NetworkError
func NewNetworkError(operation, endpoint string, cause error) *NetworkError {
	return &NetworkError{GuideError{Operation: operation, Endpoint: endpoint, Cause: cause}}
}

func (e *NetworkError) Unwrap() error { return &e.GuideError }

// APIError represents a non-2xx response from the guide service
type APIError struct {
	GuideError
}

// NewAPIError creates a new APIError
func NewAPIError(status int, endpoint, body string) *APIError {
	e := &APIError{GuideError{Operation: "guide request failed", Endpoint: endpoint, HTTPStatus: status}}
	e.WithBody(body)
	return e
}

func (e *APIError) Unwrap() error { return &e.GuideError }

// AuthError represents a rejected API key
type AuthError struct {
	GuideError
}

// NewAuthError creates a new AuthError
func NewAuthError(status int, endpoint string) *AuthError {
	return &AuthError{GuideError{Operation: "authentication failed", Endpoint: endpoint, HTTPStatus: status}}
}

func (e *AuthError) Unwrap() error { return &e.GuideError }

// UsageLimitError represents a rate limit or quota error
type UsageLimitError struct {
	GuideError
}

// NewUsageLimitError creates a new UsageLimitError
func NewUsageLimitError(endpoint string) *UsageLimitError {
	return &UsageLimitError{GuideError{Operation: "usage limit exceeded", Endpoint: endpoint, HTTPStatus: 429}}
}

func (e *UsageLimitError) Unwrap() error { return &e.GuideError }

// TimeoutError represents a guide call that did not settle in time
type TimeoutError struct {
	GuideError
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(operation string, cause error) *TimeoutError {
	return &TimeoutError{GuideError{Operation: operation, Cause: cause}}
}

func (e *TimeoutError) Error() string {
	return "request timed out: " + e.GuideError.Error()
}

func (e *TimeoutError) Unwrap() error { return &e.GuideError }

// ParseError represents a reply body that could not be understood
type ParseError struct {
	GuideError
	Path string
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{GuideError: GuideError{Operation: "parse error: " + message}, Path: path}
}

func (e *ParseError) Unwrap() error { return &e.GuideError }

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidReply
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// IsTimeoutError reports whether err is a timeout, including context deadlines
func IsTimeoutError(err error) bool {
	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsAuthError reports whether err is an authentication failure
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) || errors.Is(err, ErrMissingAPIKey)
}

// IsRateLimitError reports whether err is a usage limit error
func IsRateLimitError(err error) bool {
	var limitErr *UsageLimitError
	return errors.As(err, &limitErr)
}

// GetHTTPStatus returns the HTTP status carried by err, or 0
func GetHTTPStatus(err error) int {
	var guideErr *GuideError
	if errors.As(err, &guideErr) {
		return guideErr.HTTPStatus
	}
	return 0
}

// Category returns a short label for err, used in logs and metrics.
func Category(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsTimeoutError(err):
		return "timeout"
	case IsAuthError(err):
		return "auth"
	case IsRateLimitError(err):
		return "rate_limit"
	case IsNetworkError(err):
		return "network"
	case errors.Is(err, ErrEmptyReply), errors.Is(err, ErrInvalidReply):
		return "reply"
	case GetHTTPStatus(err) > 0:
		return "api"
	default:
		return "unknown"
	}
}
