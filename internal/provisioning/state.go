package provisioning

import (
	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/identity"
	"github.com/imamik/eksgraph/internal/provisioning/reachability"
)

// State holds the handles declared by provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	Network    *NetworkState
	Cluster    *ClusterState
	Federation *FederationState
	// TrustBindings are keyed by binding name (vpc-cni, efs-csi, ...).
	TrustBindings map[string]*TrustBindingState
	Extensions    []*ExtensionState
	Ingress       *IngressState
	Storage       *StorageState
	Database      *DatabaseState
	Rules         []*graph.Node
	Exports       []*graph.Node
	Findings      []ValidationError
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{
		TrustBindings: make(map[string]*TrustBindingState),
	}
}

// NetworkState is the Network Topology handle.
type NetworkState struct {
	VPC            *graph.Node
	PublicSubnets  []*graph.Node
	PrivateSubnets []*graph.Node
}

// VPCID references the resolved VPC identifier.
func (n *NetworkState) VPCID() graph.Reference { return n.VPC.Ref(graph.AttrID) }

// PrivateSubnetIDs references every private subnet identifier.
func (n *NetworkState) PrivateSubnetIDs() graph.Value { return subnetIDs(n.PrivateSubnets) }

// PublicSubnetIDs references every public subnet identifier.
func (n *NetworkState) PublicSubnetIDs() graph.Value { return subnetIDs(n.PublicSubnets) }

func subnetIDs(nodes []*graph.Node) graph.Value {
	values := make([]graph.Value, 0, len(nodes))
	for _, n := range nodes {
		values = append(values, n.Ref(graph.AttrID))
	}
	return graph.List(values...)
}

// ClusterState is the Cluster Provisioner handle.
type ClusterState struct {
	Name             string
	ServiceRole      *graph.Node
	ControlPlane     *graph.Node
	NodeRole         *graph.Node
	WorkerPools      []*graph.Node
	IdentityProvider *graph.Node
	AdminRole        *graph.Node
	AccessEntries    []*graph.Node
	// TemporaryAccess is the operator's temporary admin entry, if declared.
	TemporaryAccess *graph.Node
}

// IssuerURL references the control plane's resolved OIDC issuer.
func (c *ClusterState) IssuerURL() graph.Reference { return c.ControlPlane.Ref(graph.AttrIssuerURL) }

// ARN references the control plane's resolved ARN.
func (c *ClusterState) ARN() graph.Reference { return c.ControlPlane.Ref(graph.AttrARN) }

// Scope is the cluster security scope assigned by the provider.
func (c *ClusterState) Scope() reachability.Scope {
	return reachability.NewScope("cluster", c.ControlPlane, graph.AttrSecurityGroupID)
}

// FederationState holds what trust bindings need to derive their
// conditions.
type FederationState struct {
	Resolver identity.Resolver
	// Pinned is set when the issuer was supplied up front.
	Pinned *identity.ProviderReference
}

// TrustBindingState is one workload's federated role.
type TrustBindingState struct {
	Name            string
	Principal       identity.PrincipalPath
	Role            *graph.Node
	ManagedPolicies []string
	InlinePolicies  []string
}

// RoleARN references the role's resolved ARN.
func (t *TrustBindingState) RoleARN() graph.Reference { return t.Role.Ref(graph.AttrARN) }

// ExtensionState is one requested extension.
type ExtensionState struct {
	Name    string
	Node    *graph.Node
	Binding string
}

// IngressState is the Ingress Provisioner handle.
type IngressState struct {
	SecurityGroup *graph.Node
	Controller    *TrustBindingState
}

// Scope is the ingress security scope.
func (i *IngressState) Scope() reachability.Scope {
	return reachability.NewScope("ingress", i.SecurityGroup, graph.AttrID)
}

// StorageState is the Shared-Storage handle.
type StorageState struct {
	SecurityGroup    *graph.Node
	Filesystem       *graph.Node
	AccessPartitions []*graph.Node
}

// Scope is the filesystem security scope.
func (s *StorageState) Scope() reachability.Scope {
	return reachability.NewScope("storage", s.SecurityGroup, graph.AttrID)
}

// DatabaseState is the Relational-Store handle.
type DatabaseState struct {
	SecurityGroup *graph.Node
	Secret        *graph.Node
	Cluster       *graph.Node
}

// Scope is the database security scope.
func (d *DatabaseState) Scope() reachability.Scope {
	return reachability.NewScope("database", d.SecurityGroup, graph.AttrID)
}

// Port references the database's resolved endpoint port.
func (d *DatabaseState) Port() graph.Reference { return d.Cluster.Ref(graph.AttrPort) }
