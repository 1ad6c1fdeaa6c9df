package guide

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	apierrors "github.com/atlasai/zelig/internal/errors"
)

// contentGenerator is the part of llms.Model the guide needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// LLMClient answers through any langchaingo chat model.
type LLMClient struct {
	llm  contentGenerator
	name string
}

// NewLLMClient wraps a langchaingo model.
func NewLLMClient(llm contentGenerator, name string) *LLMClient {
	return &LLMClient{llm: llm, name: name}
}

// NewOpenAIClient creates an LLMClient backed by an OpenAI-compatible chat
// completions API. baseURL may be empty for the official endpoint.
func NewOpenAIClient(model, apiKey, baseURL string) (*LLMClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: %w", apierrors.ErrMissingAPIKey)
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai model: %w", err)
	}
	return NewLLMClient(llm, "openai/"+model), nil
}

// Reply implements Guide.
func (c *LLMClient) Reply(ctx context.Context, text string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, SystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, text),
	}

	resp, err := c.llm.GenerateContent(ctx, messages, llms.WithTemperature(0.7))
	if err != nil {
		if ctx.Err() != nil {
			return "", apierrors.NewTimeoutError("generate content", ctx.Err())
		}
		return "", apierrors.NewGuideError("generate content", err)
	}

	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", apierrors.NewParseError("no choices in reply", "choices")
	}

	reply := strings.TrimSpace(resp.Choices[0].Content)
	if reply == "" {
		return "", apierrors.ErrEmptyReply
	}
	return reply, nil
}

// Name implements Named.
func (c *LLMClient) Name() string { return c.name }
