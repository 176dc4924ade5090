// Package mocks provides centralized mock implementations for testing.
//
// Each mock has a function field per interface method for custom behavior,
// default return values used when no function is set, and call tracking
// that is safe for parallel subtests.
//
// Usage:
//
//	svc := &mocks.MockLearningService{
//	    GetCardFn: func(ctx context.Context, id string) (*domain.LearningCard, error) {
//	        return nil, store.ErrCardNotFound
//	    },
//	}
//
// When adding a new mock to this package, create a new file named after the
// interface being mocked.
package mocks
