package provider

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/eksgraph/internal/graph"
)

func TestSimulator_Deterministic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cfg := SimulatorConfig{Region: "eu-west-1", AccountID: "111122223333", Namespace: "posit-sce"}
	req := Request{ID: "posit-sce-eks-vpc", Kind: graph.KindNetwork}

	first, err := NewSimulator(cfg).Submit(ctx, req)
	require.NoError(t, err)
	second, err := NewSimulator(cfg).Submit(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first[graph.AttrID], "vpc-"))
	assert.Equal(t, "arn:aws:ec2:eu-west-1:111122223333:vpc/"+first[graph.AttrID], first[graph.AttrARN])

	other, err := NewSimulator(SimulatorConfig{Namespace: "other"}).Submit(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, first[graph.AttrID], other[graph.AttrID])
}

func TestSimulator_Kinds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sim := NewSimulator(SimulatorConfig{Region: "us-east-1", AccountID: "111122223333", Namespace: "demo"})

	cluster, err := sim.Submit(ctx, Request{ID: "cluster", Kind: graph.KindCluster, Properties: map[string]any{PropName: "demo"}})
	require.NoError(t, err)
	assert.Equal(t, "demo", cluster[graph.AttrName])
	assert.True(t, strings.HasPrefix(cluster[graph.AttrIssuerURL], "https://oidc.eks.us-east-1.amazonaws.com/id/"))
	assert.True(t, strings.HasPrefix(cluster[graph.AttrSecurityGroupID], "sg-"))

	oidc, err := sim.Submit(ctx, Request{ID: "oidc", Kind: graph.KindIdentityProvider, Properties: map[string]any{PropURL: cluster[graph.AttrIssuerURL]}})
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:iam::111122223333:oidc-provider/"+strings.TrimPrefix(cluster[graph.AttrIssuerURL], "https://"), oidc[graph.AttrARN])

	db, err := sim.Submit(ctx, Request{ID: "db", Kind: graph.KindDatabase})
	require.NoError(t, err)
	assert.Equal(t, "5432", db[graph.AttrPort])
	assert.NotEmpty(t, db[graph.AttrEndpoint])

	secret, err := sim.Submit(ctx, Request{ID: "secret", Kind: graph.KindSecret, Properties: map[string]any{PropName: "posit-sce-db"}})
	require.NoError(t, err)
	assert.Equal(t, "posit-sce-db", secret[graph.AttrName])

	addon, err := sim.Submit(ctx, Request{ID: "addon", Kind: graph.KindExtension, Properties: map[string]any{PropAddonName: "coredns"}})
	require.NoError(t, err)
	assert.Equal(t, "coredns", addon[graph.AttrName])

	role, err := sim.Submit(ctx, Request{ID: "irsa-alb-controller", Kind: graph.KindTrustBinding, Properties: map[string]any{PropRoleName: "posit-alb-controller-irsa"}})
	require.NoError(t, err)
	assert.Equal(t, "posit-alb-controller-irsa", role[graph.AttrName])
	assert.Equal(t, "arn:aws:iam::111122223333:role/posit-alb-controller-irsa", role[graph.AttrARN])

	pool, err := sim.Submit(ctx, Request{ID: "pool", Kind: graph.KindWorkerPool, Properties: map[string]any{PropNodegroupName: "posit-small"}})
	require.NoError(t, err)
	assert.Equal(t, "posit-small", pool[graph.AttrName])

	assert.Len(t, sim.Submissions(), 7)
	state, ok := sim.State("db")
	assert.True(t, ok)
	assert.Equal(t, db, state)
}

func TestSimulator_Overrides(t *testing.T) {
	t.Parallel()
	sim := NewSimulator(SimulatorConfig{Overrides: map[string]graph.Attributes{
		"cluster": {graph.AttrIssuerURL: "https://issuer.example.com/broken"},
	}})

	attrs, err := sim.Submit(context.Background(), Request{ID: "cluster", Kind: graph.KindCluster})
	require.NoError(t, err)
	assert.Equal(t, "https://issuer.example.com/broken", attrs[graph.AttrIssuerURL])
	assert.NotEmpty(t, attrs[graph.AttrSecurityGroupID])
}

func TestSimulator_CanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := NewSimulator(SimulatorConfig{})
	_, err := sim.Submit(ctx, Request{ID: "x", Kind: graph.KindNetwork})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sim.Submissions())
}

func TestFunc(t *testing.T) {
	t.Parallel()
	var p Provider = Func(func(_ context.Context, req Request) (graph.Attributes, error) {
		return graph.Attributes{graph.AttrID: req.ID}, nil
	})
	attrs, err := p.Submit(context.Background(), Request{ID: "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", attrs[graph.AttrID])
}
