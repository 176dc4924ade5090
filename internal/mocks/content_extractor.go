package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/scry-tutor/internal/generation"
)

// MockContentExtractor implements generation.ContentExtractor for testing
type MockContentExtractor struct {
	// ExtractFn allows test cases to mock the Extract behavior
	ExtractFn func(ctx context.Context, content string) ([]generation.CardDraft, error)

	// Default response values
	Drafts []generation.CardDraft
	Err    error

	// Call tracking for verification
	ExtractCalls struct {
		mu       sync.Mutex
		Count    int
		Contents []string
	}
}

// Extract implements the generation.ContentExtractor interface
func (m *MockContentExtractor) Extract(ctx context.Context, content string) ([]generation.CardDraft, error) {
	m.ExtractCalls.mu.Lock()
	m.ExtractCalls.Count++
	m.ExtractCalls.Contents = append(m.ExtractCalls.Contents, content)
	m.ExtractCalls.mu.Unlock()

	if m.ExtractFn != nil {
		return m.ExtractFn(ctx, content)
	}
	return m.Drafts, m.Err
}

// CallCount returns how many times Extract was called.
func (m *MockContentExtractor) CallCount() int {
	m.ExtractCalls.mu.Lock()
	defer m.ExtractCalls.mu.Unlock()
	return m.ExtractCalls.Count
}

// NewMockExtractorWithDrafts creates an extractor that returns drafts
func NewMockExtractorWithDrafts(drafts ...generation.CardDraft) *MockContentExtractor {
	return &MockContentExtractor{Drafts: drafts}
}

// NewMockExtractorWithError creates an extractor that always fails with err
func NewMockExtractorWithError(err error) *MockContentExtractor {
	return &MockContentExtractor{Err: err}
}

// MockExtractorWithContentBlocked simulates a safety filter rejection
func MockExtractorWithContentBlocked() *MockContentExtractor {
	return &MockContentExtractor{Err: generation.ErrContentBlocked}
}

// MockExtractorWithTransientFailure simulates a retryable upstream failure
func MockExtractorWithTransientFailure() *MockContentExtractor {
	return &MockContentExtractor{Err: generation.ErrTransientFailure}
}
