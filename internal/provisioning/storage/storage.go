package storage

import (
	"fmt"
	"strconv"

	"github.com/imamik/eksgraph/internal/config"
	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/provisioning"
	"github.com/imamik/eksgraph/internal/provisioning/network"
	"github.com/imamik/eksgraph/internal/util/labels"
	"github.com/imamik/eksgraph/internal/util/naming"
)

// Filesystem property keys.
const (
	PropEncrypted            = "encrypted"
	PropLifecyclePolicies    = "lifecyclePolicies"
	PropPerformanceMode      = "performanceMode"
	PropThroughputMode       = "throughputMode"
	PropRemovalPolicy        = "removalPolicy"
	PropAllowAnonymousAccess = "allowAnonymousAccess"
	PropSecurityGroupIDs     = "securityGroupIds"
	PropSubnetIDs            = "subnetIds"

	PropFileSystemID  = "fileSystemId"
	PropRootDirectory = "rootDirectory"
	PropPosixUser     = "posixUser"
)

// Filesystem settings.
const (
	TransitionToIA  = "AFTER_14_DAYS"
	PerformanceMode = "GENERAL_PURPOSE"
	ThroughputMode  = "ELASTIC"
	RemovalDestroy  = "DESTROY"

	SecurityGroupDescription = "SG for Posit EFS"
)

// NFSPort is the port workloads mount the filesystem on.
const NFSPort = 2049

// ACL is the ownership an access partition's root directory is created
// with.
type ACL struct {
	OwnerUID    int
	OwnerGID    int
	Permissions string
}

// Partition is one access point into the filesystem.
type Partition struct {
	Name string
	// Tag is the Name tag shown in the console.
	Tag  string
	Path string
	ACL  ACL
	// PosixUser, if set, is enforced for every client of the partition.
	PosixUser *ACL
}

// DefaultPartitions returns the workbench, connect and package manager
// partitions.
func DefaultPartitions() []Partition {
	shared := ACL{OwnerUID: 1000, OwnerGID: 1000, Permissions: "0755"}
	packman := ACL{OwnerUID: 999, OwnerGID: 999, Permissions: "0777"}
	return []Partition{
		{Name: "workbench-shared", Tag: "Workbench_Shared", Path: "/workbench/shared", ACL: shared},
		{Name: "workbench-user", Tag: "Workbench_User", Path: "/workbench/user", ACL: shared},
		{Name: "connect", Tag: "Connect", Path: "/connect", ACL: shared},
		{Name: "packman", Tag: "Packman", Path: "/packman", ACL: packman, PosixUser: &packman},
	}
}

// Declare adds the security scope, the filesystem and its partitions. The
// filesystem is ordered after the cluster control plane.
func Declare(g *graph.Graph, params *config.Parameters, net *provisioning.NetworkState, cluster *provisioning.ClusterState, partitions []Partition) (*provisioning.StorageState, error) {
	if net == nil || cluster == nil {
		return nil, &graph.NodeError{NodeID: naming.Filesystem, Err: fmt.Errorf("%w: network and cluster must be declared first", provisioning.ErrMissingPrerequisite)}
	}

	sg, err := network.DeclareSecurityGroup(g, params, net, network.SecurityGroup{
		ID:          naming.StorageSecurityGroup,
		Component:   "storage",
		Description: SecurityGroupDescription,
	})
	if err != nil {
		return nil, err
	}

	tags := labels.NewLabelBuilder(params.StackName).WithComponent("storage")
	fs, err := g.Add(graph.NewNode(naming.Filesystem, graph.KindFilesystem, graph.Properties{
		PropEncrypted: graph.Lit(true),
		PropLifecyclePolicies: graph.Lit([]map[string]any{
			{"transitionToIA": TransitionToIA},
		}),
		PropPerformanceMode:      graph.Lit(PerformanceMode),
		PropThroughputMode:       graph.Lit(ThroughputMode),
		PropRemovalPolicy:        graph.Lit(RemovalDestroy),
		PropAllowAnonymousAccess: graph.Lit(true),
		PropSecurityGroupIDs:     graph.List(sg.Ref(graph.AttrID)),
		PropSubnetIDs:            net.PrivateSubnetIDs(),
	}, graph.WithTags(tags.Build())))
	if err != nil {
		return nil, err
	}
	if err := g.AddOrderingEdge(cluster.ControlPlane.ID(), fs.ID(), "cluster before shared storage"); err != nil {
		return nil, err
	}

	state := &provisioning.StorageState{SecurityGroup: sg, Filesystem: fs}
	for _, p := range partitions {
		n, err := declarePartition(g, params, fs, p)
		if err != nil {
			return nil, err
		}
		state.AccessPartitions = append(state.AccessPartitions, n)
	}
	return state, nil
}

func declarePartition(g *graph.Graph, params *config.Parameters, fs *graph.Node, p Partition) (*graph.Node, error) {
	props := graph.Properties{
		PropFileSystemID: fs.Ref(graph.AttrID),
		PropRootDirectory: graph.Lit(map[string]any{
			"path": p.Path,
			"creationInfo": map[string]any{
				"ownerUid":    strconv.Itoa(p.ACL.OwnerUID),
				"ownerGid":    strconv.Itoa(p.ACL.OwnerGID),
				"permissions": p.ACL.Permissions,
			},
		}),
	}
	if p.PosixUser != nil {
		props[PropPosixUser] = graph.Lit(map[string]any{
			"uid": strconv.Itoa(p.PosixUser.OwnerUID),
			"gid": strconv.Itoa(p.PosixUser.OwnerGID),
		})
	}
	tags := labels.NewLabelBuilder(params.StackName).
		WithComponent("storage").
		Merge(map[string]string{"Name": p.Tag}).
		Build()
	return g.Add(graph.NewNode(naming.AccessPartition(p.Name), graph.KindAccessPartition, props, graph.WithTags(tags)))
}

// Provisioner declares the shared storage.
type Provisioner struct {
	// Partitions overrides DefaultPartitions when non-nil.
	Partitions []Partition
}

// NewProvisioner creates a new storage provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "storage"
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	partitions := p.Partitions
	if partitions == nil {
		partitions = DefaultPartitions()
	}
	state, err := Declare(ctx.Graph, ctx.Params, ctx.State.Network, ctx.State.Cluster, partitions)
	if err != nil {
		return fmt.Errorf("failed to declare shared storage: %w", err)
	}
	ctx.State.Storage = state
	ctx.Observer.Printf("[%s] declared filesystem with %d access partitions", p.Name(), len(state.AccessPartitions))
	return nil
}
