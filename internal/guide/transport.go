package guide

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	apierrors "github.com/atlasai/zelig/internal/errors"
)

// maxReplyBytes bounds how much of a reply body is read.
const maxReplyBytes = 4 << 20

// Doer is the part of tls_client.HttpClient the guide clients use.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// defaultTransportTimeout is the transport ceiling used when the caller
// passes a negative timeout.
const defaultTransportTimeout = 300

// NewHTTPClient creates the TLS client shared by the HTTP backends. The
// per-call deadline comes from the request context; timeoutSeconds is only
// the transport ceiling. Zero leaves the transport unbounded and a negative
// value selects the default ceiling.
func NewHTTPClient(timeoutSeconds int) (tls_client.HttpClient, error) {
	if timeoutSeconds < 0 {
		timeoutSeconds = defaultTransportTimeout
	}

	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(timeoutSeconds),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithNotFollowRedirects(),
	}

	client, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	return client, nil
}

// postJSON sends payload as JSON and returns the raw body of a 2xx reply.
// Non-2xx statuses are mapped to typed errors.
func postJSON(ctx context.Context, client Doer, endpoint string, headers map[string]string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, apierrors.NewGuideError("marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, apierrors.NewGuideError("create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apierrors.NewTimeoutError("guide request", ctx.Err())
		}
		return nil, apierrors.NewNetworkError("guide request", endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return nil, apierrors.NewNetworkError("read reply", endpoint, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		e := apierrors.NewAuthError(resp.StatusCode, endpoint)
		e.WithBody(string(body))
		return nil, e
	case resp.StatusCode == http.StatusTooManyRequests:
		e := apierrors.NewUsageLimitError(endpoint)
		e.WithBody(string(body))
		return nil, e
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, apierrors.NewAPIError(resp.StatusCode, endpoint, string(body))
	}

	return body, nil
}
