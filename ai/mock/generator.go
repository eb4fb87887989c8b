package mock

import (
	"context"
	"sync"

	"github.com/cooltech/fridgebot/ai"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields, or scripted
// responses returned in order.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, scripted responses (or the default echo) are used.
	GenerateFunc func(ctx context.Context, prompt string, schema *ai.Schema) (string, error)

	mu        sync.Mutex
	responses []string
	next      int
	prompts   []string
	callCount int
}

// NewMockGenerator creates a mock generator with default echo behavior.
// Note: Returns concrete type to allow test assertions via GetMockGenerator().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Script queues responses to be returned by successive Generate calls.
// When the script runs out, the last response is repeated.
func (m *MockGenerator) Script(responses ...string) *MockGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, responses...)
	return m
}

// Generate returns the next scripted response, or echoes the prompt when no
// script is set.
func (m *MockGenerator) Generate(ctx context.Context, prompt string, schema *ai.Schema) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, schema)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.responses) > 0 {
		response := m.responses[m.next]
		if m.next < len(m.responses)-1 {
			m.next++
		}
		return response, nil
	}

	return "mock answer for: " + prompt, nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Prompts returns every prompt passed to Generate, in call order.
func (m *MockGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// Reset clears state, scripts, and custom functions.
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.next = 0
	m.responses = nil
	m.prompts = nil
	m.GenerateFunc = nil
}
