// Package api provides the text-generation clients behind the chat store.
package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"go.uber.org/zap"

	"github.com/diogo/geminichat/internal/config"
	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/logging"
)

// Generator maps a prompt to a reply. Implementations make a single
// request: no retry, no streaming.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to Generator
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// clientOptions is shared by the provider clients
type clientOptions struct {
	model   string
	baseURL string
	logger  *zap.Logger
}

// ClientOption configures a provider client
type ClientOption func(*clientOptions)

// WithModel sets the model name sent to the provider
func WithModel(model string) ClientOption {
	return func(o *clientOptions) {
		o.model = model
	}
}

// WithBaseURL points the client at another endpoint
func WithBaseURL(url string) ClientOption {
	return func(o *clientOptions) {
		o.baseURL = url
	}
}

// WithLogger sets the logger for request debugging
func WithLogger(l *zap.Logger) ClientOption {
	return func(o *clientOptions) {
		o.logger = l
	}
}

func buildOptions(provider string, opts []ClientOption) clientOptions {
	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.model == "" {
		o.model = config.DefaultModelFor(provider)
	}
	o.logger = logging.OrNop(o.logger).With(zap.String("provider", provider))
	return o
}

// NewGenerator builds the generator selected by cfg, reading the API key
// from the environment.
func NewGenerator(ctx context.Context, cfg config.Config, logger *zap.Logger) (Generator, error) {
	opts := []ClientOption{WithLogger(logger)}
	if cfg.DefaultModel != "" {
		opts = append(opts, WithModel(cfg.DefaultModel))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, WithBaseURL(cfg.BaseURL))
	}

	if cfg.Provider == "" {
		cfg.Provider = config.ProviderGemini
	}
	provider := cfg.Provider

	if provider == config.ProviderMock {
		return NewEchoGenerator(), nil
	}

	key := cfg.APIKey()
	switch provider {
	case config.ProviderGemini:
		if key == "" {
			return nil, fmt.Errorf("%w: set GEMINI_API_KEY or GOOGLE_API_KEY", apierrors.ErrMissingAPIKey)
		}
		return NewGeminiClient(ctx, key, opts...)
	case config.ProviderOpenAI:
		if key == "" {
			return nil, fmt.Errorf("%w: set OPENAI_API_KEY", apierrors.ErrMissingAPIKey)
		}
		return NewOpenAIClient(key, opts...), nil
	case config.ProviderAnthropic:
		if key == "" {
			return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY", apierrors.ErrMissingAPIKey)
		}
		return NewAnthropicClient(key, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", apierrors.ErrUnknownProvider, provider)
	}
}

// wrapError converts SDK failures into *APIError, keeping the HTTP status
// when the SDK exposes one. Context errors pass through unchanged.
func wrapError(provider string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	status := 0
	var oaiErr *openai.Error
	var antErr *anthropic.Error
	switch {
	case errors.As(err, &oaiErr):
		status = oaiErr.StatusCode
	case errors.As(err, &antErr):
		status = antErr.StatusCode
	}

	return apierrors.NewAPIError(provider, status, summarize(err), err)
}

// summarize keeps the first line of an SDK error, which carries the
// request and status; later lines dump the raw body.
func summarize(err error) string {
	msg := strings.TrimSpace(err.Error())
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = strings.TrimSpace(msg[:i])
	}
	if msg == "" {
		msg = "request failed"
	}
	return msg
}
