package api

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/diogo/geminichat/internal/config"
	apierrors "github.com/diogo/geminichat/internal/errors"
)

// OpenAIClient generates replies with any OpenAI-compatible chat endpoint
type OpenAIClient struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIClient creates a client; WithBaseURL selects a compatible provider
func NewOpenAIClient(apiKey string, opts ...ClientOption) *OpenAIClient {
	o := buildOptions(config.ProviderOpenAI, opts)

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if o.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(o.baseURL))
	}

	return &OpenAIClient{
		client: openai.NewClient(reqOpts...),
		model:  o.model,
		logger: o.logger,
	}
}

// Model returns the configured model name
func (c *OpenAIClient) Model() string {
	return c.model
}

// Generate sends prompt as a single user message
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug("generate", zap.String("model", c.model), zap.Int("prompt_len", len(prompt)))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", wrapError(config.ProviderOpenAI, err)
	}

	if len(resp.Choices) == 0 {
		return "", apierrors.ErrEmptyResponse
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", apierrors.ErrEmptyResponse
	}
	return text, nil
}
