package addons

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
	"github.com/imamik/eksgraph/internal/provisioning/trust"
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

// fixture declares network, cluster and the default trust bindings.
func fixture(t *testing.T, p *config.Parameters) (*graph.Graph, *provisioning.ClusterState, map[string]*provisioning.TrustBindingState) {
	t.Helper()
	g := graph.New()
	net, err := network.Declare(g, p)
	require.NoError(t, err)
	result, err := cluster.Declare(g, p, cluster.Declaration{Network: net})
	require.NoError(t, err)
	fed, err := trust.NewFederation(p)
	require.NoError(t, err)

	bindings := make(map[string]*provisioning.TrustBindingState)
	for _, spec := range trust.DefaultSpecs(p) {
		b, err := trust.Declare(g, p, result.State, fed, spec)
		require.NoError(t, err)
		bindings[b.Name] = b
	}
	return g, result.State, bindings
}

func names(exts []*provisioning.ExtensionState) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		out = append(out, e.Name)
	}
	return out
}

func TestDefaultPlan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		overrides map[string]string
		want      []string
	}{
		{
			name: "with identity agent",
			want: []string{CoreDNS, KubeProxy, PodIdentityAgent, VPCCNI, EFSCSIDriver},
		},
		{
			name:      "without identity agent",
			overrides: map[string]string{config.KeyPodIdentityAgent: "false"},
			want:      []string{CoreDNS, KubeProxy, VPCCNI, EFSCSIDriver},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got []string
			for _, s := range DefaultPlan(params(t, tt.overrides)) {
				got = append(got, s.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInstaller_RequestAllDefaultPlan(t *testing.T) {
	t.Parallel()

	p := params(t, nil)
	g, cl, bindings := fixture(t, p)
	plan := DefaultPlan(p)

	inst := NewInstaller(g, p, cl, bindings, plan)
	exts, err := inst.RequestAll(plan)
	require.NoError(t, err)
	assert.Equal(t, []string{CoreDNS, KubeProxy, PodIdentityAgent, VPCCNI, EFSCSIDriver}, names(exts))

	id := naming.Extension
	assert.True(t, g.HasEdge(id(CoreDNS), id(KubeProxy), graph.EdgeOrdering))
	assert.True(t, g.HasEdge(id(KubeProxy), id(VPCCNI), graph.EdgeOrdering))
	assert.True(t, g.HasEdge(id(PodIdentityAgent), id(VPCCNI), graph.EdgeOrdering))
	assert.True(t, g.HasEdge(id(PodIdentityAgent), id(EFSCSIDriver), graph.EdgeOrdering))
	for _, e := range exts {
		assert.True(t, g.HasEdge(naming.ControlPlane, e.Node.ID(), graph.EdgeOrdering), e.Name)
		assert.True(t, g.HasEdge(naming.IdentityProvider, e.Node.ID(), graph.EdgeOrdering), e.Name)
	}

	cni, _ := g.Node(id(VPCCNI))
	v, ok := cni.Property(PropAddonVersion)
	require.True(t, ok)
	version, err := v.Resolve(g)
	require.NoError(t, err)
	assert.Equal(t, VPCCNIVersion, version)

	assert.True(t, g.HasEdge(bindings["vpc-cni"].Role.ID(), id(VPCCNI), graph.EdgeData))
	assert.True(t, g.HasEdge(bindings["efs-csi"].Role.ID(), id(EFSCSIDriver), graph.EdgeData))

	coredns, _ := g.Node(id(CoreDNS))
	_, hasRole := coredns.Property(PropServiceAccountRoleARN)
	assert.False(t, hasRole)

	require.NoError(t, g.Validate())
}

func TestInstaller_PrerequisiteViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		plan    []Spec
		request []Spec
	}{
		{
			name:    "proxy before base networking",
			request: []Spec{{Name: KubeProxy, Role: RoleProxy}},
		},
		{
			name: "binding consumer before identity agent",
			plan: []Spec{{Name: PodIdentityAgent, Role: RoleIdentityAgent}},
			request: []Spec{
				{Name: EFSCSIDriver, Binding: "efs-csi"},
			},
		},
		{
			name:    "explicit requirement not requested",
			request: []Spec{{Name: VPCCNI, Requires: []string{KubeProxy}}},
		},
		{
			name:    "unknown binding",
			request: []Spec{{Name: "custom", Binding: "nope"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := params(t, nil)
			g, cl, bindings := fixture(t, p)
			inst := NewInstaller(g, p, cl, bindings, append(tt.plan, tt.request...))

			_, err := inst.RequestAll(tt.request)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingPrerequisite)
			nodeID, ok := graph.NodeIDOf(err)
			require.True(t, ok)
			assert.Equal(t, naming.Extension(tt.request[len(tt.request)-1].Name), nodeID)
			assert.Empty(t, g.NodesOfKind(graph.KindExtension))
		})
	}
}

func TestInstaller_BindingWithoutIdentityAgentPlanned(t *testing.T) {
	t.Parallel()

	p := params(t, map[string]string{config.KeyPodIdentityAgent: "false"})
	g, cl, bindings := fixture(t, p)
	spec := Spec{Name: EFSCSIDriver, Binding: "efs-csi"}
	inst := NewInstaller(g, p, cl, bindings, []Spec{spec})

	_, err := inst.Request(spec)
	require.NoError(t, err)
}

func TestInstaller_DuplicateRequest(t *testing.T) {
	t.Parallel()

	p := params(t, nil)
	g, cl, bindings := fixture(t, p)
	spec := Spec{Name: CoreDNS, Role: RoleBaseNetworking}
	inst := NewInstaller(g, p, cl, bindings, nil)

	_, err := inst.Request(spec)
	require.NoError(t, err)
	_, err = inst.Request(spec)
	assert.ErrorIs(t, err, graph.ErrDuplicateNode)
}

func TestInstaller_Status(t *testing.T) {
	t.Parallel()

	p := params(t, nil)
	g, cl, bindings := fixture(t, p)
	inst := NewInstaller(g, p, cl, bindings, nil)

	assert.Equal(t, NotRequested, inst.Status(CoreDNS))

	ext, err := inst.Request(Spec{Name: CoreDNS, Role: RoleBaseNetworking})
	require.NoError(t, err)
	assert.Equal(t, Requested, inst.Status(CoreDNS))

	require.NoError(t, ext.Node.Resolve(graph.Attributes{graph.AttrARN: "arn:aws:eks:us-east-1:111122223333:addon/posit/coredns/x"}))
	assert.Equal(t, Active, inst.Status(CoreDNS))
	assert.Equal(t, "Active", inst.Status(CoreDNS).String())
}

func TestProvisioner_Provision(t *testing.T) {
	t.Parallel()

	p := params(t, nil)
	g, cl, bindings := fixture(t, p)
	pctx := provisioning.NewContext(context.Background(), p, nil)
	pctx.Graph = g
	pctx.State.Cluster = cl
	pctx.State.TrustBindings = bindings

	prov := NewProvisioner()
	assert.Equal(t, "addons", prov.Name())
	require.NoError(t, prov.Provision(pctx))
	assert.Len(t, pctx.State.Extensions, 5)
}

func TestProvisioner_MissingCluster(t *testing.T) {
	t.Parallel()

	pctx := provisioning.NewContext(context.Background(), params(t, nil), nil)
	err := NewProvisioner().Provision(pctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingPrerequisite)
}
