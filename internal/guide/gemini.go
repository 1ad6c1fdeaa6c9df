package guide

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	apierrors "github.com/atlasai/zelig/internal/errors"
)

// DefaultGeminiBaseURL is the Generative Language API root.
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GJSON paths into a generateContent reply.
const (
	pathCandidateParts = "candidates.0.content.parts.#.text"
	pathFinishReason   = "candidates.0.finishReason"
	pathBlockReason    = "promptFeedback.blockReason"
)

// GeminiClient calls the Gemini generateContent REST endpoint with the
// guide's system instruction.
type GeminiClient struct {
	http    Doer
	baseURL string
	model   string
	apiKey  string
}

// GeminiOption configures a GeminiClient
type GeminiOption func(*GeminiClient)

// WithGeminiBaseURL overrides the API root, mainly for tests.
func WithGeminiBaseURL(baseURL string) GeminiOption {
	return func(c *GeminiClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// NewGeminiClient creates a Gemini-backed guide.
func NewGeminiClient(client Doer, model, apiKey string, opts ...GeminiOption) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", apierrors.ErrMissingAPIKey)
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	c := &GeminiClient{
		http:    client,
		baseURL: DefaultGeminiBaseURL,
		model:   model,
		apiKey:  apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction geminiContent   `json:"systemInstruction"`
	Contents          []geminiContent `json:"contents"`
}

func (c *GeminiClient) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
}

// Reply implements Guide.
func (c *GeminiClient) Reply(ctx context.Context, text string) (string, error) {
	payload := geminiRequest{
		SystemInstruction: geminiContent{Parts: []geminiPart{{Text: SystemPrompt}}},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: text}}},
		},
	}

	headers := map[string]string{"x-goog-api-key": c.apiKey}
	body, err := postJSON(ctx, c.http, c.endpoint(), headers, payload)
	if err != nil {
		return "", err
	}

	return parseGeminiReply(body)
}

// parseGeminiReply joins the text parts of the first candidate.
func parseGeminiReply(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("reply is not JSON", "")
	}

	parsed := gjson.ParseBytes(body)
	if reason := parsed.Get(pathBlockReason); reason.Exists() {
		return "", apierrors.NewParseError("prompt blocked: "+reason.String(), pathBlockReason)
	}

	parts := parsed.Get(pathCandidateParts)
	if !parts.Exists() || !parts.IsArray() {
		if finish := parsed.Get(pathFinishReason); finish.Exists() {
			return "", apierrors.NewParseError("no content, finish reason "+finish.String(), pathFinishReason)
		}
		return "", apierrors.NewParseError("no candidates found", pathCandidateParts)
	}

	var sb strings.Builder
	parts.ForEach(func(_, part gjson.Result) bool {
		sb.WriteString(part.String())
		return true
	})

	reply := strings.TrimSpace(sb.String())
	if reply == "" {
		return "", apierrors.ErrEmptyReply
	}
	return reply, nil
}

// Name implements Named.
func (c *GeminiClient) Name() string { return "gemini/" + c.model }
