package testing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/provider"
)

// MockProvider is a mock implementation of the provider.Provider interface.
type MockProvider struct {
	mock.Mock
}

// Submit records the call and returns the configured attributes.
func (m *MockProvider) Submit(ctx context.Context, req provider.Request) (graph.Attributes, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(graph.Attributes), args.Error(1)
}

// RequestFor matches a request by node identifier.
func RequestFor(id string) any {
	return mock.MatchedBy(func(req provider.Request) bool { return req.ID == id })
}
