package addons

import (
	"fmt"

	"github.com/imamik/eksgraph/internal/config"
	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/provisioning"
	"github.com/imamik/eksgraph/internal/util/labels"
	"github.com/imamik/eksgraph/internal/util/naming"
)

// ErrMissingPrerequisite is returned when an extension is requested before
// one it depends on.
var ErrMissingPrerequisite = provisioning.ErrMissingPrerequisite

// Extension property keys.
const (
	PropAddonName             = "addonName"
	PropAddonVersion          = "addonVersion"
	PropClusterName           = "clusterName"
	PropResolveConflicts      = "resolveConflicts"
	PropServiceAccountRoleARN = "serviceAccountRoleArn"
)

// Status is an extension's activation state.
type Status int

const (
	NotRequested Status = iota
	Requested
	Active
)

func (s Status) String() string {
	switch s {
	case Requested:
		return "Requested"
	case Active:
		return "Active"
	default:
		return "NotRequested"
	}
}

// Installer declares extensions and enforces their partial order.
type Installer struct {
	graph    *graph.Graph
	params   *config.Parameters
	cluster  *provisioning.ClusterState
	bindings map[string]*provisioning.TrustBindingState
	// identityAgentPlanned is set when the plan contains an identity agent.
	identityAgentPlanned bool

	requested map[string]*provisioning.ExtensionState
	roles     map[Role][]string
	order     []*provisioning.ExtensionState
}

// NewInstaller creates an installer for plan. The plan is only inspected
// for an identity agent; nothing is declared until Request.
func NewInstaller(g *graph.Graph, params *config.Parameters, cluster *provisioning.ClusterState, bindings map[string]*provisioning.TrustBindingState, plan []Spec) *Installer {
	i := &Installer{
		graph:     g,
		params:    params,
		cluster:   cluster,
		bindings:  bindings,
		requested: make(map[string]*provisioning.ExtensionState),
		roles:     make(map[Role][]string),
	}
	for _, s := range plan {
		if s.Role == RoleIdentityAgent {
			i.identityAgentPlanned = true
		}
	}
	return i
}

// Status reports the activation state of the named extension.
func (i *Installer) Status(name string) Status {
	ext, ok := i.requested[name]
	switch {
	case !ok:
		return NotRequested
	case ext.Node.IsResolved():
		return Active
	default:
		return Requested
	}
}

// Requested returns the declared extensions in request order.
func (i *Installer) Requested() []*provisioning.ExtensionState {
	return append([]*provisioning.ExtensionState(nil), i.order...)
}

// RequestAll requests every spec in order and stops at the first error.
func (i *Installer) RequestAll(plan []Spec) ([]*provisioning.ExtensionState, error) {
	for _, s := range plan {
		if _, err := i.Request(s); err != nil {
			return nil, err
		}
	}
	return i.Requested(), nil
}

// Request declares spec after checking its prerequisites were requested.
func (i *Installer) Request(spec Spec) (*provisioning.ExtensionState, error) {
	id := naming.Extension(spec.Name)
	if spec.Name == "" {
		return nil, fmt.Errorf("extension without a name")
	}
	if i.cluster == nil {
		return nil, &graph.NodeError{NodeID: id, Err: fmt.Errorf("%w: cluster not declared", ErrMissingPrerequisite)}
	}
	if _, dup := i.requested[spec.Name]; dup {
		return nil, &graph.NodeError{NodeID: id, Err: graph.ErrDuplicateNode}
	}

	prereqs, err := i.prerequisites(spec)
	if err != nil {
		return nil, &graph.NodeError{NodeID: id, Err: err}
	}

	props := graph.Properties{
		PropAddonName:   graph.Lit(spec.Name),
		PropClusterName: graph.Lit(i.params.ClusterIdentifier),
	}
	if spec.Version != "" {
		props[PropAddonVersion] = graph.Lit(spec.Version)
	}
	if spec.ResolveConflicts != "" {
		props[PropResolveConflicts] = graph.Lit(spec.ResolveConflicts)
	}
	if spec.Binding != "" {
		props[PropServiceAccountRoleARN] = i.bindings[spec.Binding].RoleARN()
	}

	tags := labels.NewLabelBuilder(i.params.StackName).WithComponent("addons").Build()
	n, err := i.graph.Add(graph.NewNode(id, graph.KindExtension, props, graph.WithTags(tags)))
	if err != nil {
		return nil, err
	}

	edges := []struct{ from, reason string }{
		{i.cluster.ControlPlane.ID(), "control plane ready"},
		{i.cluster.IdentityProvider.ID(), "identity provider registered"},
	}
	for _, p := range prereqs {
		edges = append(edges, struct{ from, reason string }{p.Node.ID(), "requires " + p.Name})
	}
	for _, e := range edges {
		if err := i.graph.AddOrderingEdge(e.from, id, e.reason); err != nil {
			return nil, err
		}
	}

	ext := &provisioning.ExtensionState{Name: spec.Name, Node: n, Binding: spec.Binding}
	i.requested[spec.Name] = ext
	i.roles[spec.Role] = append(i.roles[spec.Role], spec.Name)
	i.order = append(i.order, ext)
	return ext, nil
}

// prerequisites returns the already requested extensions spec must follow.
func (i *Installer) prerequisites(spec Spec) ([]*provisioning.ExtensionState, error) {
	var names []string

	if spec.Role == RoleProxy {
		base := i.roles[RoleBaseNetworking]
		if len(base) == 0 {
			return nil, fmt.Errorf("%w: proxy extension %s needs a base networking extension", ErrMissingPrerequisite, spec.Name)
		}
		names = append(names, base...)
	}

	if spec.Binding != "" {
		if _, ok := i.bindings[spec.Binding]; !ok {
			return nil, fmt.Errorf("%w: trust binding %s was never declared", ErrMissingPrerequisite, spec.Binding)
		}
		if i.identityAgentPlanned {
			agents := i.roles[RoleIdentityAgent]
			if len(agents) == 0 {
				return nil, fmt.Errorf("%w: %s consumes a trust binding before the identity agent was requested", ErrMissingPrerequisite, spec.Name)
			}
			names = append(names, agents...)
		}
	}

	for _, r := range spec.Requires {
		if _, ok := i.requested[r]; !ok {
			return nil, fmt.Errorf("%w: %s requires %s", ErrMissingPrerequisite, spec.Name, r)
		}
		names = append(names, r)
	}

	seen := make(map[string]struct{}, len(names))
	var out []*provisioning.ExtensionState
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, i.requested[n])
	}
	return out, nil
}
