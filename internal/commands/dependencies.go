package commands

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/diogo/geminichat/internal/api"
	"github.com/diogo/geminichat/internal/chat"
	"github.com/diogo/geminichat/internal/config"
	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/history"
	"github.com/diogo/geminichat/internal/logging"
	"github.com/diogo/geminichat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(store *chat.Store, opts tui.Options) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// TUI is the terminal user interface.
	TUI TUIInterface

	// Copy writes text to the system clipboard.
	Copy func(string) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(store *chat.Store, opts tui.Options) error {
	return tui.Run(store, opts)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:  &DefaultTUI{},
		Copy: clipboard.WriteAll,
	}
}

// environment is what a command opens from the configuration: the logger
// and the persisted sessions.
type environment struct {
	cfg     config.Config
	logger  *zap.Logger
	history *history.Store
}

// openEnvironment loads the config, applies flag overrides and opens storage
func openEnvironment(opts *globalOptions) (*environment, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if opts.provider != "" {
		if err := cfg.SetValue("provider", opts.provider); err != nil {
			return nil, err
		}
	}
	if opts.model != "" {
		cfg.DefaultModel = opts.model
	}

	dir, err := config.EnsureConfigDir()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(dir, cfg.Verbose)
	if err != nil {
		return nil, err
	}

	store, err := history.DefaultStore(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	return &environment{cfg: cfg, logger: logger, history: store}, nil
}

// chatStore builds the session store with the configured generation client
func (e *environment) chatStore(ctx context.Context) (*chat.Store, error) {
	gen, err := api.NewGenerator(ctx, e.cfg, e.logger)
	if err != nil {
		return nil, err
	}
	return chat.New(e.history, gen, chat.WithLogger(e.logger)), nil
}

// sessions builds a store for commands that never generate
func (e *environment) sessions() *chat.Store {
	offline := api.GeneratorFunc(func(context.Context, string) (string, error) {
		return "", apierrors.ErrMissingAPIKey
	})
	return chat.New(e.history, offline, chat.WithLogger(e.logger))
}

func (e *environment) close() {
	_ = e.history.Close()
	_ = e.logger.Sync()
}
