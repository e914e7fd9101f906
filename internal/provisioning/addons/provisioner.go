package addons

import (
	"fmt"

	"github.com/imamik/eksgraph/internal/provisioning"
)

// Provisioner requests the extension plan.
type Provisioner struct {
	// Plan overrides DefaultPlan when non-nil.
	Plan []Spec
}

// NewProvisioner creates a new extension provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "addons"
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	plan := p.Plan
	if plan == nil {
		plan = DefaultPlan(ctx.Params)
	}

	installer := NewInstaller(ctx.Graph, ctx.Params, ctx.State.Cluster, ctx.State.TrustBindings, plan)
	extensions, err := installer.RequestAll(plan)
	if err != nil {
		return fmt.Errorf("failed to request extensions: %w", err)
	}
	ctx.State.Extensions = extensions

	for _, ext := range extensions {
		ctx.Observer.Printf("[%s] requested %s", p.Name(), ext.Name)
	}
	return nil
}
