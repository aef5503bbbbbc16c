package api

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of AskClient for testing
type MockClient struct {
	// Mock return values
	Reply       string
	Err         error
	EndpointVal string

	// Release, when set, blocks Ask until a value is received or the
	// context is done. Lets tests observe the in-flight state.
	Release chan struct{}
	// Started, when set, receives the prompt as soon as Ask is entered.
	Started chan string

	mu          sync.Mutex
	prompts     []string
	closeCalled bool
}

// Ensure MockClient implements AskClient
var _ AskClient = (*MockClient)(nil)

// Ask records the prompt and returns the configured reply or error
func (m *MockClient) Ask(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.Started != nil {
		m.Started <- prompt
	}

	if m.Release != nil {
		select {
		case <-m.Release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

// Endpoint returns the configured endpoint
func (m *MockClient) Endpoint() string {
	return m.EndpointVal
}

// Close records that the client was closed
func (m *MockClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalled = true
}

// Prompts returns the prompts received so far
func (m *MockClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// CallCount returns how many times Ask was called
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// CloseCalled reports whether Close was called
func (m *MockClient) CloseCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalled
}
