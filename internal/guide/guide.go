// Package guide provides the clients for the external text-generation
// service that answers the traveller, plus decorators for timeouts and
// instrumentation.
package guide

import (
	"context"
	"fmt"
	"time"

	apierrors "github.com/atlasai/zelig/internal/errors"
)

// Guide turns user text into assistant text.
type Guide interface {
	Reply(ctx context.Context, text string) (string, error)
}

// Named is implemented by guides that can describe their backend.
type Named interface {
	Name() string
}

// NameOf returns g's backend name, or "guide" when it has none.
func NameOf(g Guide) string {
	if n, ok := g.(Named); ok {
		return n.Name()
	}
	return "guide"
}

// timeoutGuide bounds every call with a deadline.
type timeoutGuide struct {
	next    Guide
	timeout time.Duration
}

// WithTimeout returns a guide whose calls fail with a TimeoutError once d
// elapses. A non-positive d returns next unchanged.
func WithTimeout(next Guide, d time.Duration) Guide {
	if d <= 0 {
		return next
	}
	return &timeoutGuide{next: next, timeout: d}
}

func (g *timeoutGuide) Reply(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	type result struct {
		reply string
		err   error
	}
	done := make(chan result, 1)
	go func() {
		reply, err := g.next.Reply(ctx, text)
		done <- result{reply, err}
	}()

	// Some backends ignore ctx; the select keeps the deadline authoritative.
	select {
	case r := <-done:
		if r.err != nil && ctx.Err() != nil && !apierrors.IsTimeoutError(r.err) {
			return "", apierrors.NewTimeoutError(fmt.Sprintf("reply after %s", g.timeout), r.err)
		}
		return r.reply, r.err
	case <-ctx.Done():
		return "", apierrors.NewTimeoutError(fmt.Sprintf("reply after %s", g.timeout), ctx.Err())
	}
}

func (g *timeoutGuide) Name() string { return NameOf(g.next) }
