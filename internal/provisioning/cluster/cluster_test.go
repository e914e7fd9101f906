package cluster

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/eksgraph/internal/config"
	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/provisioning"
	"github.com/imamik/eksgraph/internal/provisioning/network"
	"github.com/imamik/eksgraph/internal/util/labels"
	"github.com/imamik/eksgraph/internal/util/naming"
)

func params(t *testing.T, overrides map[string]string) *config.Parameters {
	t.Helper()
	raw := map[string]string{
		config.KeyClusterIdentifier: "posit",
		config.KeyDatabaseName:      "db",
		config.KeyDatabaseUsername:  "user",
		config.KeyAccountID:         "111122223333",
	}
	for k, v := range overrides {
		raw[k] = v
	}
	p, err := config.Build(raw, nil)
	require.NoError(t, err)
	return p
}

func declare(t *testing.T, p *config.Parameters) (*graph.Graph, *Result) {
	t.Helper()
	g := graph.New()
	net, err := network.Declare(g, p)
	require.NoError(t, err)
	result, err := Declare(g, p, Declaration{Network: net})
	require.NoError(t, err)
	return g, result
}

func prop(t *testing.T, n *graph.Node, key string) graph.Value {
	t.Helper()
	v, ok := n.Property(key)
	require.True(t, ok, "%s has no property %s", n.ID(), key)
	return v
}

func TestDeclare_ControlPlane(t *testing.T) {
	t.Parallel()

	g, result := declare(t, params(t, nil))
	state := result.State

	require.Len(t, g.NodesOfKind(graph.KindCluster), 1)
	assert.True(t, g.HasEdge(naming.ClusterServiceRole, naming.ControlPlane, graph.EdgeData))
	for _, s := range []string{naming.Subnet("private", "us-east-1a"), naming.Subnet("private", "us-east-1b")} {
		assert.True(t, g.HasEdge(s, naming.ControlPlane, graph.EdgeData), s)
	}
	assert.False(t, g.HasEdge(naming.Subnet("public", "us-east-1a"), naming.ControlPlane, graph.EdgeData))

	mode, _ := prop(t, state.ControlPlane, PropAuthenticationMode).Resolve(nil)
	assert.Equal(t, AuthenticationModeAPI, mode)
	logs, _ := prop(t, state.ControlPlane, PropLogTypes).Resolve(nil)
	assert.Len(t, logs, 5)

	managed, _ := prop(t, state.ServiceRole, provisioning.PropManagedPolicies).Resolve(nil)
	assert.Len(t, managed, 7)
	assert.Contains(t, managed, "arn:aws:iam::aws:policy/AmazonEKSClusterPolicy")
}

func TestDeclare_Pools(t *testing.T) {
	t.Parallel()

	g, result := declare(t, params(t, nil))
	pools := result.State.WorkerPools
	require.Len(t, pools, 2)

	for _, pool := range pools {
		assert.True(t, g.HasEdge(naming.ControlPlane, pool.ID(), graph.EdgeData), pool.ID())
		assert.True(t, g.HasEdge(naming.NodeRole, pool.ID(), graph.EdgeData), pool.ID())
	}

	small, _ := g.Node(naming.WorkerPool("posit-small"))
	size, _ := prop(t, small, PropDiskSize).Resolve(nil)
	assert.Equal(t, 50, size)
	large, _ := g.Node(naming.WorkerPool("posit-large"))
	desired, _ := prop(t, large, PropDesiredSize).Resolve(nil)
	assert.Equal(t, 0, desired)
}

func TestDeclare_InvalidPool(t *testing.T) {
	t.Parallel()

	p := params(t, nil)
	g := graph.New()
	net, err := network.Declare(g, p)
	require.NoError(t, err)

	_, err = Declare(g, p, Declaration{Network: net, Pools: []PoolSpec{{Name: "x", InstanceType: "m5.large", MinSize: 3, MaxSize: 2, DesiredSize: 2}}})
	assert.Error(t, err)
}

func TestDeclare_RequiresNetwork(t *testing.T) {
	t.Parallel()

	_, err := Declare(graph.New(), params(t, nil), Declaration{})
	assert.Error(t, err)
}

func TestDeclare_IdentityProviderFollowsIssuer(t *testing.T) {
	t.Parallel()

	g, result := declare(t, params(t, nil))
	idp := result.State.IdentityProvider
	edges := g.Edges()
	found := false
	for _, e := range edges {
		if e.From == naming.ControlPlane && e.To == idp.ID() && e.Reason == graph.AttrIssuerURL {
			found = true
		}
	}
	assert.True(t, found, "identity provider must depend on the issuer attribute")
}

func TestDeclare_AccessEntries(t *testing.T) {
	t.Parallel()

	t.Run("without operator identity", func(t *testing.T) {
		t.Parallel()
		_, result := declare(t, params(t, nil))
		assert.Len(t, result.State.AccessEntries, 1)
		assert.Nil(t, result.State.TemporaryAccess)
		assert.Empty(t, result.TemporaryGrant)
	})

	t.Run("with operator identity", func(t *testing.T) {
		t.Parallel()
		operator := "arn:aws:iam::111122223333:role/Deployer"
		_, result := declare(t, params(t, map[string]string{config.KeyOperatorIdentity: operator}))

		require.Len(t, result.State.AccessEntries, 2)
		tmp := result.State.TemporaryAccess
		require.NotNil(t, tmp)
		assert.True(t, labels.IsTemporary(tmp.Tags()))
		assert.False(t, labels.IsTemporary(result.State.AccessEntries[0].Tags()))
		principal, _ := prop(t, tmp, PropPrincipalARN).Resolve(nil)
		assert.Equal(t, operator, principal)
		assert.Equal(t, operator, result.TemporaryGrant)

		policies, _ := prop(t, tmp, PropAccessPolicies).Resolve(nil)
		assert.Equal(t, "arn:aws:eks::aws:cluster-access-policy/AmazonEKSClusterAdminPolicy",
			policies.([]map[string]any)[0]["policyArn"])
	})
}

func TestAdminTrust(t *testing.T) {
	t.Parallel()

	t.Run("known account", func(t *testing.T) {
		t.Parallel()
		_, result := declare(t, params(t, nil))
		doc, err := prop(t, result.State.AdminRole, provisioning.PropAssumeRolePolicy).Resolve(nil)
		require.NoError(t, err)
		assert.Contains(t, doc, "arn:aws:iam::111122223333:root")
	})

	t.Run("account from cluster arn", func(t *testing.T) {
		t.Parallel()
		p := params(t, nil)
		p.AccountID = ""
		g, result := declare(t, p)
		assert.True(t, g.HasEdge(naming.ControlPlane, naming.AdminRole, graph.EdgeData))

		require.NoError(t, result.State.ControlPlane.Resolve(graph.Attributes{
			graph.AttrARN: "arn:aws:eks:us-east-1:444455556666:cluster/posit",
		}))
		doc, err := prop(t, result.State.AdminRole, provisioning.PropAssumeRolePolicy).Resolve(g)
		require.NoError(t, err)

		var parsed map[string]any
		require.NoError(t, json.Unmarshal([]byte(doc.(string)), &parsed))
		assert.Contains(t, doc, "arn:aws:iam::444455556666:root")
	})
}

func TestProvisioner(t *testing.T) {
	t.Parallel()

	p := params(t, map[string]string{config.KeyOperatorIdentity: "arn:aws:iam::111122223333:role/Deployer"})
	ctx := provisioning.NewContext(context.Background(), p, nil)
	require.NoError(t, network.NewProvisioner().Provision(ctx))

	prov := NewProvisioner()
	assert.Equal(t, "cluster", prov.Name())
	require.NoError(t, prov.Provision(ctx))
	require.NotNil(t, ctx.State.Cluster)
	assert.Equal(t, "posit", ctx.State.Cluster.Name)
}
