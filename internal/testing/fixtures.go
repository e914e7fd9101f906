package testing

import (
	"context"
	"sync"

	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/provider"
)

// GatedProvider holds submissions of chosen nodes until they are released.
// Everything else passes straight through to the wrapped provider.
type GatedProvider struct {
	inner provider.Provider

	mu      sync.Mutex
	gates   map[string]chan struct{}
	waiting map[string]bool
	seen    []string
}

// NewGatedProvider wraps inner and closes a gate in front of every id.
func NewGatedProvider(inner provider.Provider, ids ...string) *GatedProvider {
	p := &GatedProvider{
		inner:   inner,
		gates:   make(map[string]chan struct{}, len(ids)),
		waiting: make(map[string]bool),
	}
	for _, id := range ids {
		p.gates[id] = make(chan struct{})
	}
	return p
}

// Submit implements provider.Provider.
func (p *GatedProvider) Submit(ctx context.Context, req provider.Request) (graph.Attributes, error) {
	p.mu.Lock()
	p.seen = append(p.seen, req.ID)
	gate, gated := p.gates[req.ID]
	if gated {
		p.waiting[req.ID] = true
	}
	p.mu.Unlock()

	if gated {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return p.inner.Submit(ctx, req)
}

// Waiting reports whether a submission of id is held at its gate.
func (p *GatedProvider) Waiting(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waiting[id]
}

// Seen reports whether id was submitted, gated or not.
func (p *GatedProvider) Seen(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.seen {
		if s == id {
			return true
		}
	}
	return false
}

// Release opens the gate for id. Releasing twice is a no-op.
func (p *GatedProvider) Release(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gate, ok := p.gates[id]; ok {
		close(gate)
		delete(p.gates, id)
	}
}

// ReleaseAll opens every remaining gate.
func (p *GatedProvider) ReleaseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, gate := range p.gates {
		close(gate)
		delete(p.gates, id)
	}
}

// FailingProvider fails submissions of chosen nodes.
type FailingProvider struct {
	Inner    provider.Provider
	Failures map[string]error
}

// Submit implements provider.Provider.
func (p *FailingProvider) Submit(ctx context.Context, req provider.Request) (graph.Attributes, error) {
	if err, ok := p.Failures[req.ID]; ok {
		return nil, err
	}
	return p.Inner.Submit(ctx, req)
}
