package compose

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"

	"github.com/imamik/eksgraph/internal/config"
	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/manifests"
	"github.com/imamik/eksgraph/internal/provider"
	"github.com/imamik/eksgraph/internal/provisioning"
	"github.com/imamik/eksgraph/internal/provisioning/addons"
	"github.com/imamik/eksgraph/internal/provisioning/cluster"
	"github.com/imamik/eksgraph/internal/provisioning/database"
	"github.com/imamik/eksgraph/internal/provisioning/ingress"
	"github.com/imamik/eksgraph/internal/provisioning/network"
	"github.com/imamik/eksgraph/internal/provisioning/storage"
	"github.com/imamik/eksgraph/internal/provisioning/trust"
)

// Composer builds and materializes the stack.
type Composer struct {
	Provider provider.Provider
	Observer provisioning.Observer
	Metrics  *provisioning.Metrics
	// Tunables override the environment when set.
	Tunables *config.Tunables

	// Pools overrides the default worker pools.
	Pools []cluster.PoolSpec
	// Extensions overrides the default extension plan.
	Extensions []addons.Spec
	// Decorate, if set, is called with the declared graph before it is
	// validated. It may add nodes and edges.
	Decorate func(*provisioning.Context) error
}

// Result is what a composition produced.
type Result struct {
	Graph *graph.Graph
	State *provisioning.State
	// Order is a topological order of the node identifiers.
	Order    []string
	Outputs  []graph.OutputExport
	Risks    []config.RiskException
	Findings []provisioning.ValidationError
	// ServiceAccounts carry the resolved role of every trust binding. Only
	// set by Compose.
	ServiceAccounts []*corev1.ServiceAccount
}

// Plan declares and validates the graph without submitting anything.
func (c *Composer) Plan(ctx context.Context, params *config.Parameters) (*Result, error) {
	pctx := c.newContext(ctx, params)
	if err := provisioning.RunPhases(pctx, c.declarePhases()); err != nil {
		return c.result(pctx), err
	}
	order, err := pctx.Graph.TopologicalSort()
	res := c.result(pctx)
	res.Order = order
	return res, err
}

// Compose declares the graph and materializes it. Nodes that were already
// materialized when a failure occurs stay in place.
func (c *Composer) Compose(ctx context.Context, params *config.Parameters) (*Result, error) {
	if c.Provider == nil {
		return nil, fmt.Errorf("composer has no provider")
	}
	pctx := c.newContext(ctx, params)
	phases := append(c.declarePhases(), &provisioning.MaterializePhase{Provider: c.Provider, Metrics: c.Metrics})
	if err := provisioning.RunPhases(pctx, phases); err != nil {
		return c.result(pctx), err
	}

	res := c.result(pctx)
	res.Order, _ = pctx.Graph.TopologicalSort()
	outputs, err := pctx.Graph.Outputs()
	if err != nil {
		return res, err
	}
	res.Outputs = outputs

	bindings, err := resolvedBindings(pctx.State)
	if err != nil {
		return res, err
	}
	res.ServiceAccounts = manifests.ServiceAccounts(params.StackName, bindings)
	return res, nil
}

func (c *Composer) newContext(ctx context.Context, params *config.Parameters) *provisioning.Context {
	pctx := provisioning.NewContext(ctx, params, c.Observer)
	if c.Tunables != nil {
		pctx.Tunables = c.Tunables
	}
	return pctx
}

func (c *Composer) declarePhases() []provisioning.Phase {
	phases := []provisioning.Phase{
		provisioning.NewValidationPhase(),
		network.NewProvisioner(),
		&cluster.Provisioner{Pools: c.Pools},
		trust.NewProvisioner(),
		&addons.Provisioner{Plan: c.Extensions},
		ingress.NewProvisioner(),
		storage.NewProvisioner(),
		database.NewProvisioner(),
		&RulesPhase{},
		&OutputsPhase{},
	}
	if c.Decorate != nil {
		phases = append(phases, provisioning.PhaseFunc{PhaseName: "decorate", Fn: c.Decorate})
	}
	return phases
}

func (c *Composer) result(pctx *provisioning.Context) *Result {
	res := &Result{
		Graph:    pctx.Graph,
		State:    pctx.State,
		Findings: pctx.State.Findings,
	}
	if pctx.Params != nil {
		res.Risks = pctx.Params.AcceptedRisks
	}
	return res
}

func resolvedBindings(state *provisioning.State) ([]manifests.Binding, error) {
	out := make([]manifests.Binding, 0, len(state.TrustBindings))
	for _, b := range state.TrustBindings {
		roleARN, err := b.Role.Attr(graph.AttrARN)
		if err != nil {
			return nil, err
		}
		out = append(out, manifests.Binding{Name: b.Name, Principal: b.Principal, RoleARN: roleARN})
	}
	return out, nil
}
