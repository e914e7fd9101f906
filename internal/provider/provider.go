package provider

import (
	"context"
	"maps"

	"github.com/imamik/eksgraph/internal/graph"
)

// Request is a node's evaluated property bag as submitted to the provider.
type Request struct {
	ID         string
	Kind       graph.Kind
	Properties map[string]any
	Tags       map[string]string
}

// String returns a property as a string, or "" when absent.
func (r Request) String(key string) string {
	v, ok := r.Properties[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// Clone returns a deep-enough copy for recording.
func (r Request) Clone() Request {
	r.Properties = maps.Clone(r.Properties)
	r.Tags = maps.Clone(r.Tags)
	return r
}

// Provider materializes resources. Submit must be idempotent: repeating a
// request with an identical property bag reconciles instead of duplicating.
type Provider interface {
	Submit(ctx context.Context, req Request) (graph.Attributes, error)
}

// Func adapts a function to Provider.
type Func func(ctx context.Context, req Request) (graph.Attributes, error)

// Submit implements Provider.
func (f Func) Submit(ctx context.Context, req Request) (graph.Attributes, error) {
	return f(ctx, req)
}
