package api

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/diogo/geminichat/internal/config"
	apierrors "github.com/diogo/geminichat/internal/errors"
)

// GeminiClient generates replies with the Gemini API
type GeminiClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiClient creates a client for the Gemini developer API
func NewGeminiClient(ctx context.Context, apiKey string, opts ...ClientOption) (*GeminiClient, error) {
	o := buildOptions(config.ProviderGemini, opts)

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if o.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: o.baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: o.model, logger: o.logger}, nil
}

// Model returns the configured model name
func (c *GeminiClient) Model() string {
	return c.model
}

// Generate sends prompt as a single user turn
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	c.logger.Debug("generate", zap.String("model", c.model), zap.Int("prompt_len", len(prompt)))
	res, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", wrapError(config.ProviderGemini, err)
	}

	text := res.Text()
	if strings.TrimSpace(text) == "" {
		return "", apierrors.ErrEmptyResponse
	}
	return text, nil
}
