// Package config handles configuration loading and persistence for geminichat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"

	apierrors "github.com/diogo/geminichat/internal/errors"
)

// HomeEnv overrides the configuration directory when set
const HomeEnv = "GEMINICHAT_HOME"

// Providers
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

// Storage backends
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`             // "dark", "light", "dracula", "notty" or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`      // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"` // Preserve original line breaks
}

// Config represents the user configuration
type Config struct {
	Provider     string `json:"provider"`
	DefaultModel string `json:"default_model"`
	// BaseURL points OpenAI-compatible providers at another endpoint.
	BaseURL string `json:"base_url,omitempty"`
	// Storage selects the key-value backend for sessions.
	Storage string `json:"storage"`
	// Verbose switches the log file to debug level.
	Verbose         bool           `json:"verbose"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Provider:        ProviderGemini,
		DefaultModel:    DefaultModelFor(ProviderGemini),
		Storage:         StorageFile,
		Verbose:         false,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// DefaultModelFor returns the model used when none is configured
func DefaultModelFor(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderAnthropic:
		return "claude-sonnet-4-20250514"
	case ProviderMock:
		return "mock"
	default:
		return "gemini-2.5-flash"
	}
}

// AvailableProviders returns the supported provider names
func AvailableProviders() []string {
	return []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderMock}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".geminichat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.DefaultModel == "" {
		cfg.DefaultModel = DefaultModelFor(cfg.Provider)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Keys returns the keys accepted by SetValue
func Keys() []string {
	keys := []string{
		"provider", "default_model", "base_url", "storage", "verbose",
		"copy_to_clipboard", "tui_theme", "markdown.style", "markdown.enable_emoji",
		"markdown.preserve_newlines",
	}
	sort.Strings(keys)
	return keys
}

// SetValue assigns a single key on cfg from its string form
func (cfg *Config) SetValue(key, value string) error {
	switch key {
	case "provider":
		if !slices.Contains(AvailableProviders(), value) {
			return apierrors.NewConfigError(key, "must be one of "+strings.Join(AvailableProviders(), ", "))
		}
		if cfg.Provider != value {
			cfg.DefaultModel = DefaultModelFor(value)
		}
		cfg.Provider = value
	case "default_model":
		if strings.TrimSpace(value) == "" {
			return apierrors.NewConfigError(key, "cannot be empty")
		}
		cfg.DefaultModel = value
	case "base_url":
		cfg.BaseURL = value
	case "storage":
		if value != StorageFile && value != StorageSQLite {
			return apierrors.NewConfigError(key, "must be file or sqlite")
		}
		cfg.Storage = value
	case "tui_theme":
		cfg.TUITheme = value
	case "markdown.style":
		cfg.Markdown.Style = value
	case "verbose", "copy_to_clipboard", "markdown.enable_emoji", "markdown.preserve_newlines":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return apierrors.NewConfigError(key, "must be true or false")
		}
		switch key {
		case "verbose":
			cfg.Verbose = b
		case "copy_to_clipboard":
			cfg.CopyToClipboard = b
		case "markdown.enable_emoji":
			cfg.Markdown.EnableEmoji = b
		case "markdown.preserve_newlines":
			cfg.Markdown.PreserveNewLines = b
		}
	default:
		return apierrors.NewConfigError(key, "unknown key")
	}
	return nil
}

// APIKey returns the API key for the configured provider from the environment
func (cfg Config) APIKey() string {
	var names []string
	switch cfg.Provider {
	case ProviderOpenAI:
		names = []string{"OPENAI_API_KEY"}
	case ProviderAnthropic:
		names = []string{"ANTHROPIC_API_KEY"}
	case ProviderGemini:
		names = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	}
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
