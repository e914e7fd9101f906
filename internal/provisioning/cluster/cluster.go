package cluster

import (
	"fmt"

	"github.com/imamik/eksgraph/internal/config"
	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/identity"
	"github.com/imamik/eksgraph/internal/provisioning"
	"github.com/imamik/eksgraph/internal/util/labels"
	"github.com/imamik/eksgraph/internal/util/naming"
)

// Control plane and pool property keys.
const (
	PropName                  = "name"
	PropVersion               = "version"
	PropRoleARN               = "roleArn"
	PropSubnetIDs             = "subnetIds"
	PropEndpointPrivateAccess = "endpointPrivateAccess"
	PropAuthenticationMode    = "authenticationMode"
	PropBootstrapCreatorAdmin = "bootstrapClusterCreatorAdminPermissions"
	PropLogTypes              = "enabledLogTypes"

	PropClusterName   = "clusterName"
	PropNodegroupName = "nodegroupName"
	PropNodeRole      = "nodeRole"
	PropSubnets       = "subnets"
	PropInstanceTypes = "instanceTypes"
	PropMinSize       = "minSize"
	PropMaxSize       = "maxSize"
	PropDesiredSize   = "desiredSize"
	PropDiskSize      = "diskSize"
	PropForceUpdate   = "forceUpdateEnabled"

	PropURL          = "url"
	PropClientIDList = "clientIdList"

	PropPrincipalARN   = "principalArn"
	PropAccessPolicies = "accessPolicies"
)

const (
	// AuthenticationModeAPI grants access through access entries only.
	AuthenticationModeAPI = "API"
	// ClusterAdminPolicy is the access policy given to admin entries.
	ClusterAdminPolicy = "AmazonEKSClusterAdminPolicy"
)

// LogTypes are the control plane log streams that are enabled.
var LogTypes = []string{"api", "audit", "authenticator", "controllerManager", "scheduler"}

// ServiceRolePolicies are attached to the control plane's service role.
var ServiceRolePolicies = []string{
	"AmazonEKSClusterPolicy",
	"AmazonEKSVPCResourceController",
	"AmazonEKSWorkerNodePolicy",
	"AmazonEC2ContainerRegistryReadOnly",
	"AmazonEKS_CNI_Policy",
	"AmazonSSMManagedInstanceCore",
	"CloudWatchAgentServerPolicy",
}

// NodeRolePolicies are attached to the worker node role. The CNI policy is
// needed before the CNI extension's own binding exists, otherwise nodes
// never join.
var NodeRolePolicies = []string{
	"AmazonEKSWorkerNodePolicy",
	"AmazonEKS_CNI_Policy",
	"AmazonEC2ContainerRegistryReadOnly",
	"AmazonSSMManagedInstanceCore",
	"CloudWatchAgentServerPolicy",
}

// Declaration holds what Declare needs besides parameters.
type Declaration struct {
	Network *provisioning.NetworkState
	Pools   []PoolSpec
}

// Result is what Declare produced.
type Result struct {
	State *provisioning.ClusterState
	// TemporaryGrant is set when a temporary operator entry was declared.
	TemporaryGrant string
}

// Declare adds the control plane with its roles, pools, identity provider
// and access entries.
func Declare(g *graph.Graph, params *config.Parameters, decl Declaration) (*Result, error) {
	if decl.Network == nil {
		return nil, &graph.NodeError{NodeID: naming.ControlPlane, Err: fmt.Errorf("%w: network must be declared first", provisioning.ErrMissingPrerequisite)}
	}
	pools := decl.Pools
	if pools == nil {
		pools = DefaultPools()
	}

	tags := labels.NewLabelBuilder(params.StackName).WithComponent("cluster").Build()
	state := &provisioning.ClusterState{Name: params.ClusterIdentifier}

	var err error
	state.ServiceRole, err = declareServiceRole(g, params, naming.ClusterServiceRole, params.ClusterIdentifier+"-service-role",
		"eks.amazonaws.com", ServiceRolePolicies, tags)
	if err != nil {
		return nil, err
	}

	state.ControlPlane, err = g.Add(graph.NewNode(naming.ControlPlane, graph.KindCluster, graph.Properties{
		PropName:                  graph.Lit(params.ClusterIdentifier),
		PropVersion:               graph.Lit(params.KubernetesVersion),
		PropRoleARN:               state.ServiceRole.Ref(graph.AttrARN),
		PropSubnetIDs:             decl.Network.PrivateSubnetIDs(),
		PropEndpointPrivateAccess: graph.Lit(true),
		PropAuthenticationMode:    graph.Lit(AuthenticationModeAPI),
		PropBootstrapCreatorAdmin: graph.Lit(false),
		PropLogTypes:              graph.Lit(append([]string(nil), LogTypes...)),
	}, graph.WithTags(tags)))
	if err != nil {
		return nil, err
	}

	state.NodeRole, err = declareServiceRole(g, params, naming.NodeRole, params.ClusterIdentifier+"-node-role",
		"ec2.amazonaws.com", NodeRolePolicies, tags)
	if err != nil {
		return nil, err
	}

	for _, pool := range pools {
		n, err := declarePool(g, state, decl.Network, pool, tags)
		if err != nil {
			return nil, err
		}
		state.WorkerPools = append(state.WorkerPools, n)
	}

	state.IdentityProvider, err = g.Add(graph.NewNode(naming.IdentityProvider, graph.KindIdentityProvider, graph.Properties{
		PropURL:          state.IssuerURL(),
		PropClientIDList: graph.Lit([]string{identity.FederationAudience}),
	}, graph.WithTags(tags)))
	if err != nil {
		return nil, err
	}

	result := &Result{State: state}
	if err := declareAccess(g, params, result, tags); err != nil {
		return nil, err
	}
	return result, nil
}

func declareServiceRole(g *graph.Graph, params *config.Parameters, id, name, service string, policies []string, tags map[string]string) (*graph.Node, error) {
	trust, err := provisioning.PolicyValue(identity.ServicePrincipalPolicy(service))
	if err != nil {
		return nil, err
	}
	managed := make([]string, 0, len(policies))
	for _, p := range policies {
		managed = append(managed, identity.ManagedPolicyARN(params.Partition, p))
	}
	props, err := provisioning.RoleProperties(name, trust, managed)
	if err != nil {
		return nil, err
	}
	return g.Add(graph.NewNode(id, graph.KindRole, props, graph.WithTags(tags)))
}

func declarePool(g *graph.Graph, state *provisioning.ClusterState, network *provisioning.NetworkState, pool PoolSpec, tags map[string]string) (*graph.Node, error) {
	if pool.Name == "" || pool.InstanceType == "" {
		return nil, fmt.Errorf("worker pool requires a name and an instance type")
	}
	if pool.MinSize < 0 || pool.MinSize > pool.DesiredSize || pool.DesiredSize > pool.MaxSize || pool.MaxSize == 0 {
		return nil, fmt.Errorf("worker pool %s: sizes must satisfy 0 <= min <= desired <= max, max > 0 (got %d/%d/%d)",
			pool.Name, pool.MinSize, pool.DesiredSize, pool.MaxSize)
	}
	return g.Add(graph.NewNode(naming.WorkerPool(pool.Name), graph.KindWorkerPool, graph.Properties{
		PropClusterName:   state.ControlPlane.Ref(graph.AttrName),
		PropNodegroupName: graph.Lit(pool.Name),
		PropNodeRole:      state.NodeRole.Ref(graph.AttrARN),
		PropSubnets:       network.PrivateSubnetIDs(),
		PropInstanceTypes: graph.Lit([]string{pool.InstanceType}),
		PropMinSize:       graph.Lit(pool.MinSize),
		PropMaxSize:       graph.Lit(pool.MaxSize),
		PropDesiredSize:   graph.Lit(pool.DesiredSize),
		PropDiskSize:      graph.Lit(pool.DiskSizeGiB),
		PropForceUpdate:   graph.Lit(false),
	}, graph.WithTags(tags)))
}
