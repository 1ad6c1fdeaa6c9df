package guide

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"

	apierrors "github.com/atlasai/zelig/internal/errors"
)

// chatPath is the guide backend's chat route.
const chatPath = "/api/chat"

// ZeligClient talks to the Marrakech guide HTTP backend:
// POST {endpoint}/api/chat {"query": ...} -> {"response": ...}.
type ZeligClient struct {
	http     Doer
	endpoint string
}

// NewZeligClient creates a client for the backend at endpoint.
func NewZeligClient(client Doer, endpoint string) *ZeligClient {
	return &ZeligClient{
		http:     client,
		endpoint: strings.TrimRight(endpoint, "/") + chatPath,
	}
}

type chatRequest struct {
	Query string `json:"query"`
}

// Reply implements Guide.
func (c *ZeligClient) Reply(ctx context.Context, text string) (string, error) {
	body, err := postJSON(ctx, c.http, c.endpoint, nil, chatRequest{Query: text})
	if err != nil {
		return "", err
	}

	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("reply is not JSON", "")
	}

	response := gjson.GetBytes(body, "response")
	if !response.Exists() {
		return "", apierrors.NewParseError("no response field in reply", "response")
	}

	reply := strings.TrimSpace(response.String())
	if reply == "" {
		return "", apierrors.ErrEmptyReply
	}
	return reply, nil
}

// Name implements Named.
func (c *ZeligClient) Name() string { return "zelig" }
