package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/eksgraph/internal/config"
	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/provisioning"
	"github.com/imamik/eksgraph/internal/provisioning/cluster"
	"github.com/imamik/eksgraph/internal/provisioning/network"
	"github.com/imamik/eksgraph/internal/util/naming"
)

func params(t *testing.T) *config.Parameters {
	t.Helper()
	p, err := config.Build(map[string]string{
		config.KeyClusterIdentifier: "posit",
		config.KeyDatabaseName:      "db",
		config.KeyDatabaseUsername:  "user",
	}, nil)
	require.NoError(t, err)
	return p
}

func literal(t *testing.T, n *graph.Node, key string) any {
	t.Helper()
	v, ok := n.Property(key)
	require.True(t, ok, "property %s", key)
	out, err := v.Resolve(nil)
	require.NoError(t, err)
	return out
}

func declared(t *testing.T) (*graph.Graph, *config.Parameters, *provisioning.NetworkState, *provisioning.ClusterState) {
	t.Helper()
	p := params(t)
	g := graph.New()
	net, err := network.Declare(g, p)
	require.NoError(t, err)
	result, err := cluster.Declare(g, p, cluster.Declaration{Network: net})
	require.NoError(t, err)
	return g, p, net, result.State
}

func TestDeclare(t *testing.T) {
	t.Parallel()

	g, p, net, cl := declared(t)
	state, err := Declare(g, p, net, cl, DefaultPartitions())
	require.NoError(t, err)

	fs := state.Filesystem
	assert.Equal(t, graph.KindFilesystem, fs.Kind())
	assert.Equal(t, true, literal(t, fs, PropEncrypted))
	assert.Equal(t, PerformanceMode, literal(t, fs, PropPerformanceMode))
	assert.Equal(t, ThroughputMode, literal(t, fs, PropThroughputMode))
	assert.Equal(t, RemovalDestroy, literal(t, fs, PropRemovalPolicy))
	assert.Equal(t, []map[string]any{{"transitionToIA": TransitionToIA}}, literal(t, fs, PropLifecyclePolicies))

	assert.True(t, g.HasEdge(naming.StorageSecurityGroup, naming.Filesystem, graph.EdgeData))
	assert.True(t, g.HasEdge(naming.ControlPlane, naming.Filesystem, graph.EdgeOrdering))
	for _, s := range net.PrivateSubnets {
		assert.True(t, g.HasEdge(s.ID(), naming.Filesystem, graph.EdgeData))
	}

	assert.Equal(t, "storage", state.Scope().Name)
	assert.Equal(t, naming.StorageSecurityGroup, state.Scope().NodeID)
	require.NoError(t, g.Validate())
}

func TestDeclare_Partitions(t *testing.T) {
	t.Parallel()

	g, p, net, cl := declared(t)
	state, err := Declare(g, p, net, cl, DefaultPartitions())
	require.NoError(t, err)
	require.Len(t, state.AccessPartitions, 4)

	tests := []struct {
		id      string
		tag     string
		path    string
		owner   string
		perms   string
		enforce bool
	}{
		{naming.AccessPartition("workbench-shared"), "Workbench_Shared", "/workbench/shared", "1000", "0755", false},
		{naming.AccessPartition("workbench-user"), "Workbench_User", "/workbench/user", "1000", "0755", false},
		{naming.AccessPartition("connect"), "Connect", "/connect", "1000", "0755", false},
		{naming.AccessPartition("packman"), "Packman", "/packman", "999", "0777", true},
	}

	for i, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			n := state.AccessPartitions[i]
			assert.Equal(t, tt.id, n.ID())
			assert.Equal(t, graph.KindAccessPartition, n.Kind())
			assert.Equal(t, tt.tag, n.Tags()["Name"])
			assert.True(t, g.HasEdge(naming.Filesystem, n.ID(), graph.EdgeData))

			root := literal(t, n, PropRootDirectory).(map[string]any)
			assert.Equal(t, tt.path, root["path"])
			info := root["creationInfo"].(map[string]any)
			assert.Equal(t, tt.owner, info["ownerUid"])
			assert.Equal(t, tt.owner, info["ownerGid"])
			assert.Equal(t, tt.perms, info["permissions"])

			_, hasPosix := n.Property(PropPosixUser)
			assert.Equal(t, tt.enforce, hasPosix)
		})
	}
}

func TestDeclare_MissingCluster(t *testing.T) {
	t.Parallel()

	p := params(t)
	g := graph.New()
	net, err := network.Declare(g, p)
	require.NoError(t, err)

	_, err = Declare(g, p, net, nil, DefaultPartitions())
	require.ErrorIs(t, err, provisioning.ErrMissingPrerequisite)
	id, ok := graph.NodeIDOf(err)
	require.True(t, ok)
	assert.Equal(t, naming.Filesystem, id)
}

func TestProvisioner_Provision(t *testing.T) {
	t.Parallel()

	g, p, net, cl := declared(t)
	ctx := provisioning.NewContext(context.Background(), p, nil)
	ctx.Graph = g
	ctx.State.Network = net
	ctx.State.Cluster = cl

	prov := NewProvisioner()
	assert.Equal(t, "storage", prov.Name())
	require.NoError(t, prov.Provision(ctx))
	require.NotNil(t, ctx.State.Storage)
	assert.Len(t, ctx.State.Storage.AccessPartitions, 4)
}
