package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError("gemini", 429, "quota exhausted", nil)

	expected := "gemini API error [429]: quota exhausted"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := NewAPIError("openai", 0, "connection reset", nil)
	if noStatus.Error() != "openai API error: connection reset" {
		t.Errorf("Error() = %s", noStatus.Error())
	}

	if !errors.Is(err, &APIError{}) {
		t.Error("expected errors.Is to match another APIError")
	}
	if errors.Is(err, ErrEmptyResponse) {
		t.Error("APIError should not match ErrEmptyResponse")
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := NewAPIError("anthropic", 0, "request failed", cause)

	if !errors.Is(err, cause) {
		t.Error("expected APIError to unwrap to its cause")
	}
}

func TestGetStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("x"), 0},
		{"api error", NewAPIError("gemini", 503, "unavailable", nil), 503},
		{"wrapped", fmt.Errorf("failed to generate: %w", NewAPIError("gemini", 401, "bad key", nil)), 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetStatusCode(tt.err); got != tt.want {
				t.Errorf("GetStatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsAPIError(t *testing.T) {
	if !IsAPIError(fmt.Errorf("wrap: %w", NewAPIError("openai", 500, "oops", nil))) {
		t.Error("expected wrapped APIError to be detected")
	}
	if IsAPIError(ErrMissingAPIKey) {
		t.Error("sentinel should not be an APIError")
	}
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("storage", "must be file or sqlite")

	if err.Error() != "invalid config storage: must be file or sqlite" {
		t.Errorf("Error() = %s", err.Error())
	}
	if !IsConfigError(fmt.Errorf("set: %w", err)) {
		t.Error("expected wrapped ConfigError to be detected")
	}
	if IsConfigError(errors.New("other")) {
		t.Error("plain error detected as ConfigError")
	}
}
