package llm

import (
	"context"
	"fmt"
)

// MockClient is a deterministic completion client for development and tests.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Enabled() bool {
	return true
}

func (m *MockClient) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	return fmt.Sprintf("You said %q. Ask me to add a task, save a note, or plan your day.", userText), nil
}

// Disabled is the completion client used when no provider is configured.
// It reports itself disabled so the fallback never calls Complete.
type Disabled struct{}

func (Disabled) Enabled() bool {
	return false
}

func (Disabled) Complete(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("completion client is disabled")
}
