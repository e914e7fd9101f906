package provisioning

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/provider"
)

const materializePhase = "materialize"

// Executor materializes a validated graph through a Provider. Each node is
// submitted once all of its predecessors are resolved; nodes without a path
// between them are submitted concurrently.
type Executor struct {
	Provider provider.Provider
	Observer Observer
	Metrics  *Metrics
	// MaxConcurrency bounds in-flight submissions; 0 means unbounded.
	MaxConcurrency int
}

// Execute submits every node of g. The first failure cancels all pending
// submissions; nodes already resolved keep their attributes.
func (e *Executor) Execute(ctx context.Context, g *graph.Graph) error {
	order, err := g.TopologicalSort()
	if err != nil {
		return err
	}

	observer := e.Observer
	if observer == nil {
		observer = NewLogObserver(logr.Discard())
	}

	eg, egCtx := errgroup.WithContext(ctx)
	if e.MaxConcurrency > 0 {
		eg.SetLimit(e.MaxConcurrency)
	}

	var done atomic.Int64
	total := len(order)
	for _, id := range order {
		n, _ := g.Node(id)
		var preds []*graph.Node
		for _, p := range g.Predecessors(id) {
			pn, _ := g.Node(p)
			preds = append(preds, pn)
		}

		eg.Go(func() error {
			if err := waitFor(egCtx, preds); err != nil {
				return err
			}
			if err := e.materialize(egCtx, g, n, observer); err != nil {
				return err
			}
			observer.Progress(materializePhase, int(done.Add(1)), total)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func waitFor(ctx context.Context, preds []*graph.Node) error {
	for _, p := range preds {
		select {
		case <-p.Resolved():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (e *Executor) materialize(ctx context.Context, g *graph.Graph, n *graph.Node, observer Observer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if n.Kind() == graph.KindOutputExport {
		if err := g.ResolveExport(n); err != nil {
			return err
		}
		value, _ := n.Attr(graph.AttrValue)
		LogOutputExported(observer, n.ID(), value)
		e.Metrics.recordResolved()
		return nil
	}

	props, err := n.Properties().Resolve(g)
	if err != nil {
		return &graph.NodeError{NodeID: n.ID(), Err: err}
	}
	req := provider.Request{
		ID:         n.ID(),
		Kind:       n.Kind(),
		Properties: props,
		Tags:       n.Tags(),
	}

	kind := string(n.Kind())
	LogResourceSubmitting(observer, materializePhase, kind, n.ID())
	start := time.Now()
	attrs, err := e.Provider.Submit(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		wrapped := provider.Wrap(req, err)
		e.Metrics.recordSubmission(kind, provider.ResultLabel(wrapped), elapsed)
		if !errors.Is(err, context.Canceled) {
			LogResourceFailed(observer, materializePhase, kind, n.ID(), wrapped)
		}
		return wrapped
	}
	e.Metrics.recordSubmission(kind, provider.ResultLabel(nil), elapsed)

	if err := n.Resolve(attrs); err != nil {
		return fmt.Errorf("record attributes: %w", err)
	}
	e.Metrics.recordResolved()
	LogResourceResolved(observer, materializePhase, kind, n.ID(), elapsed)
	return nil
}

// MaterializePhase runs the Executor as the last pipeline phase.
type MaterializePhase struct {
	Provider provider.Provider
	Metrics  *Metrics
}

// Name implements the Phase interface.
func (p *MaterializePhase) Name() string { return materializePhase }

// Provision validates the declared graph and executes it.
func (p *MaterializePhase) Provision(ctx *Context) error {
	if err := ctx.Graph.Validate(); err != nil {
		return err
	}
	maxConcurrency := 0
	if ctx.Tunables != nil {
		maxConcurrency = ctx.Tunables.MaxConcurrency
	}
	exec := &Executor{
		Provider:       p.Provider,
		Observer:       ctx.Observer,
		Metrics:        p.Metrics,
		MaxConcurrency: maxConcurrency,
	}
	return exec.Execute(ctx, ctx.Graph)
}
