package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestGuideError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *GuideError
		want string
	}{
		{"operation only", &GuideError{Operation: "send"}, "send"},
		{"with endpoint", &GuideError{Operation: "send", Endpoint: "/api/chat"}, "send at /api/chat"},
		{"with status", &GuideError{Operation: "send", Endpoint: "/api/chat", HTTPStatus: 502}, "send at /api/chat [502]"},
		{"with cause", &GuideError{Operation: "send", Cause: errors.New("boom")}, "send: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGuideError_WithBodyTruncates(t *testing.T) {
	e := NewGuideError("send", nil).WithBody(strings.Repeat("x", 2000))
	if len(e.Body) != maxBodyLen+3 {
		t.Errorf("body length = %d, want %d", len(e.Body), maxBodyLen+3)
	}
}

func TestPredicates(t *testing.T) {
	wrapped := func(err error) error { return fmt.Errorf("reply: %w", err) }

	tests := []struct {
		name      string
		err       error
		network   bool
		timeout   bool
		auth      bool
		rateLimit bool
		status    int
		category  string
	}{
		{"nil", nil, false, false, false, false, 0, "ok"},
		{"network", wrapped(NewNetworkError("send", "/api/chat", errors.New("refused"))), true, false, false, false, 0, "network"},
		{"timeout", NewTimeoutError("send", context.DeadlineExceeded), false, true, false, false, 0, "timeout"},
		{"deadline", wrapped(context.DeadlineExceeded), false, true, false, false, 0, "timeout"},
		{"auth", NewAuthError(401, "gemini"), false, false, true, false, 401, "auth"},
		{"missing key", wrapped(ErrMissingAPIKey), false, false, true, false, 0, "auth"},
		{"rate limit", NewUsageLimitError("gemini"), false, false, false, true, 429, "rate_limit"},
		{"api", NewAPIError(500, "/api/chat", "oops"), false, false, false, false, 500, "api"},
		{"parse", NewParseError("no response field", "response"), false, false, false, false, 0, "reply"},
		{"empty", ErrEmptyReply, false, false, false, false, 0, "reply"},
		{"other", errors.New("strange"), false, false, false, false, 0, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNetworkError(tt.err); got != tt.network {
				t.Errorf("IsNetworkError() = %v, want %v", got, tt.network)
			}
			if got := IsTimeoutError(tt.err); got != tt.timeout {
				t.Errorf("IsTimeoutError() = %v, want %v", got, tt.timeout)
			}
			if got := IsAuthError(tt.err); got != tt.auth {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.auth)
			}
			if got := IsRateLimitError(tt.err); got != tt.rateLimit {
				t.Errorf("IsRateLimitError() = %v, want %v", got, tt.rateLimit)
			}
			if got := GetHTTPStatus(tt.err); got != tt.status {
				t.Errorf("GetHTTPStatus() = %d, want %d", got, tt.status)
			}
			if got := Category(tt.err); got != tt.category {
				t.Errorf("Category() = %q, want %q", got, tt.category)
			}
		})
	}
}

func TestParseError_IsInvalidReply(t *testing.T) {
	err := fmt.Errorf("gemini: %w", NewParseError("no candidates", "candidates"))
	if !errors.Is(err, ErrInvalidReply) {
		t.Error("ParseError should match ErrInvalidReply")
	}
}

func TestNetworkError_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("send", "/api/chat", cause)
	if !errors.Is(err, cause) {
		t.Error("NetworkError should unwrap to its cause")
	}
}
