package api

import (
	"context"
	"fmt"
	"sync"
)

// MockGenerator is a configurable Generator for tests
type MockGenerator struct {
	// Mock return values
	Reply string
	Err   error

	// Gate, when set, blocks Generate until it is closed or receives
	Gate chan struct{}

	mu      sync.Mutex
	prompts []string
}

var _ Generator = (*MockGenerator)(nil)

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

// Calls returns the number of Generate calls so far
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns a copy of the prompts received
func (m *MockGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// LastPrompt returns the most recent prompt, or ""
func (m *MockGenerator) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// NewEchoGenerator returns the offline generator used by the "mock" provider
func NewEchoGenerator() Generator {
	return GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
		return fmt.Sprintf("You said:\n\n> %s", prompt), nil
	})
}
