package compose

import (
	"fmt"

	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/provisioning"
	"github.com/imamik/eksgraph/internal/provisioning/reachability"
	"github.com/imamik/eksgraph/internal/provisioning/storage"
	"github.com/imamik/eksgraph/internal/util/labels"
	"github.com/imamik/eksgraph/internal/util/naming"
)

// Rule descriptions.
const (
	DescriptionIngressToCluster  = "Allow traffic from ALB"
	DescriptionClusterToStorage  = "Allow NFS traffic from Posit EKS cluster"
	DescriptionClusterToDatabase = "Allow traffic from Posit EKS cluster"
)

// Rules returns the reachability rules between the declared scopes. Each
// one references the cluster's resolved security scope, so it cannot be
// submitted before the control plane is materialized.
func Rules(state *provisioning.State) ([]reachability.Rule, error) {
	if state.Cluster == nil || state.Ingress == nil || state.Storage == nil || state.Database == nil {
		return nil, fmt.Errorf("%w: rules need cluster, ingress, storage and database", provisioning.ErrMissingPrerequisite)
	}
	cluster := state.Cluster.Scope()
	ingress := state.Ingress.Scope()
	fs := state.Storage.Scope()
	db := state.Database.Scope()

	return []reachability.Rule{
		reachability.FromScope(naming.Rule(ingress.Name, cluster.Name), cluster, ingress,
			reachability.ProtocolTCP, reachability.AllPorts(), DescriptionIngressToCluster),
		reachability.FromScope(naming.Rule(cluster.Name, fs.Name), fs, cluster,
			reachability.ProtocolTCP, reachability.Port(storage.NFSPort), DescriptionClusterToStorage),
		reachability.FromScope(naming.Rule(cluster.Name, db.Name), db, cluster,
			reachability.ProtocolTCP, reachability.PortRef(state.Database.Port()), DescriptionClusterToDatabase),
	}, nil
}

// RulesPhase declares the rules returned by Rules.
type RulesPhase struct{}

// Name implements the provisioning.Phase interface.
func (p *RulesPhase) Name() string { return "rules" }

// Provision implements the provisioning.Phase interface.
func (p *RulesPhase) Provision(ctx *provisioning.Context) error {
	rules, err := Rules(ctx.State)
	if err != nil {
		return err
	}
	tags := labels.NewLabelBuilder(ctx.Params.StackName).WithComponent("reachability").Build()
	for _, r := range rules {
		n, err := reachability.Declare(ctx.Graph, r, graph.WithTags(tags))
		if err != nil {
			return fmt.Errorf("failed to declare rule %s: %w", r.ID, err)
		}
		ctx.State.Rules = append(ctx.State.Rules, n)
	}
	ctx.Observer.Printf("[%s] declared %d reachability rules", p.Name(), len(rules))
	return nil
}
