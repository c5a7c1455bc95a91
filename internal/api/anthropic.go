package api

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/diogo/geminichat/internal/config"
	apierrors "github.com/diogo/geminichat/internal/errors"
)

const anthropicMaxTokens = 8192

// AnthropicClient generates replies with the Anthropic Messages API
type AnthropicClient struct {
	client anthropic.Client
	model  string
	logger *zap.Logger
}

// NewAnthropicClient creates a client for the Messages API
func NewAnthropicClient(apiKey string, opts ...ClientOption) *AnthropicClient {
	o := buildOptions(config.ProviderAnthropic, opts)

	reqOpts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(apiKey),
		anthropicoption.WithMaxRetries(0),
	}
	if o.baseURL != "" {
		reqOpts = append(reqOpts, anthropicoption.WithBaseURL(o.baseURL))
	}

	return &AnthropicClient{
		client: anthropic.NewClient(reqOpts...),
		model:  o.model,
		logger: o.logger,
	}
}

// Model returns the configured model name
func (c *AnthropicClient) Model() string {
	return c.model
}

// Generate sends prompt as a single user message and joins the text blocks
// of the reply.
func (c *AnthropicClient) Generate(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug("generate", zap.String("model", c.model), zap.Int("prompt_len", len(prompt)))

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", wrapError(config.ProviderAnthropic, err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", apierrors.ErrEmptyResponse
	}
	return text, nil
}
