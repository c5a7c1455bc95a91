// Package errors provides custom error types for geminichat.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrMissingAPIKey   = errors.New("no API key configured")
	ErrEmptyResponse   = errors.New("no content in response")
	ErrUnknownProvider = errors.New("unknown provider")
	ErrCorruptState    = errors.New("stored sessions are corrupt")
	ErrEmptyPrompt     = errors.New("prompt cannot be empty")
)

// APIError represents a failed request to a generation provider
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s API error [%d]: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying SDK error, if any
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches any other *APIError
func (e *APIError) Is(target error) bool {
	_, ok := target.(*APIError)
	return ok
}

// NewAPIError creates a new APIError
func NewAPIError(provider string, statusCode int, message string, err error) *APIError {
	return &APIError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// ConfigError represents an invalid configuration value
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Key, e.Message)
}

// NewConfigError creates a new ConfigError
func NewConfigError(key, message string) *ConfigError {
	return &ConfigError{Key: key, Message: message}
}

// IsAPIError reports whether err wraps an *APIError
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// GetStatusCode extracts the HTTP status code from an error chain, or 0
func GetStatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsConfigError reports whether err wraps a *ConfigError
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
