package guide

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
)

// mockDoer returns a canned response and records the last request.
type mockDoer struct {
	status int
	body   string
	err    error

	lastReq  *http.Request
	lastBody string
}

func newMockDoer(status int, body string) *mockDoer {
	return &mockDoer{status: status, body: body}
}

func (m *mockDoer) Do(req *http.Request) (*http.Response, error) {
	m.lastReq = req
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		m.lastBody = string(data)
	}
	if m.err != nil {
		return nil, m.err
	}
	return &http.Response{
		StatusCode: m.status,
		Body:       io.NopCloser(strings.NewReader(m.body)),
		Header:     make(http.Header),
	}, nil
}

// stubGuide answers with a fixed reply or error, optionally after a delay.
type stubGuide struct {
	reply string
	err   error
	delay time.Duration

	mu    sync.Mutex
	calls int
}

func (s *stubGuide) Reply(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.reply, s.err
}

func (s *stubGuide) Name() string { return "stub" }
