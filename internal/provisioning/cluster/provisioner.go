package cluster

import (
	"fmt"

	"github.com/imamik/eksgraph/internal/provisioning"
)

// Provisioner declares the cluster and its access configuration.
type Provisioner struct {
	// Pools overrides the default worker pools when non-nil.
	Pools []PoolSpec
}

// NewProvisioner creates a new cluster provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "cluster"
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	result, err := Declare(ctx.Graph, ctx.Params, Declaration{
		Network: ctx.State.Network,
		Pools:   p.Pools,
	})
	if err != nil {
		return fmt.Errorf("failed to declare cluster: %w", err)
	}
	ctx.State.Cluster = result.State

	ctx.Observer.Printf("[%s] declared %s (Kubernetes %s) with %d worker pools",
		p.Name(), result.State.Name, ctx.Params.KubernetesVersion, len(result.State.WorkerPools))
	if result.TemporaryGrant != "" {
		provisioning.LogTemporaryGrant(ctx.Observer, p.Name(), result.State.TemporaryAccess.ID(), result.TemporaryGrant)
	}
	return nil
}
