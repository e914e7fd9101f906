package provisioning

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/imamik/eksgraph/internal/config"
	"github.com/imamik/eksgraph/internal/graph"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Params   *config.Parameters
	Graph    *graph.Graph
	State    *State
	Observer Observer
	Tunables *config.Tunables
}

// NewContext creates a new provisioning context with an empty graph.
func NewContext(ctx context.Context, params *config.Parameters, observer Observer) *Context {
	if observer == nil {
		observer = NewLogObserver(logr.Discard())
	}
	return &Context{
		Context:  ctx,
		Params:   params,
		Graph:    graph.New(),
		State:    NewState(),
		Observer: observer,
		Tunables: config.LoadTunables(),
	}
}
