package trust

import (
	"fmt"

	"github.com/imamik/eksgraph/internal/provisioning"
)

// Provisioner prepares identity federation and declares the extension
// bindings.
type Provisioner struct {
	// Specs overrides DefaultSpecs when non-nil.
	Specs []Spec
}

// NewProvisioner creates a new trust provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "trust"
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	fed, err := NewFederation(ctx.Params)
	if err != nil {
		return fmt.Errorf("failed to resolve cluster issuer: %w", err)
	}
	ctx.State.Federation = fed

	specs := p.Specs
	if specs == nil {
		specs = DefaultSpecs(ctx.Params)
	}
	for _, spec := range specs {
		binding, err := Declare(ctx.Graph, ctx.Params, ctx.State.Cluster, fed, spec)
		if err != nil {
			return fmt.Errorf("failed to declare trust binding %s: %w", spec.Name, err)
		}
		ctx.State.TrustBindings[spec.Name] = binding
		ctx.Observer.Printf("[%s] %s bound to %s", p.Name(), binding.Role.ID(), binding.Principal)
	}
	return nil
}
