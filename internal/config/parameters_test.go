package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRaw() map[string]string {
	return map[string]string{
		KeyClusterIdentifier: "demo",
		KeyDatabaseName:      "appdb",
		KeyDatabaseUsername:  "admin",
	}
}

func TestFromMap_Aliases(t *testing.T) {
	t.Parallel()
	p, err := FromMap(map[string]string{
		"clusterName":    "demo",
		"dbName":         "appdb",
		"dbUser":         "admin",
		"currentRoleArn": "arn:aws:iam::111122223333:role/Admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "demo", p.ClusterIdentifier)
	assert.Equal(t, "appdb", p.DatabaseName)
	assert.Equal(t, "admin", p.DatabaseUsername)
	assert.Equal(t, "arn:aws:iam::111122223333:role/Admin", p.OperatorIdentity)
	assert.Empty(t, p.UnknownKeys)
}

func TestFromMap_AliasConflict(t *testing.T) {
	t.Parallel()
	_, err := FromMap(map[string]string{"clusterName": "a", "clusterIdentifier": "b"})
	assert.Error(t, err)

	p, err := FromMap(map[string]string{"clusterName": "a", "clusterIdentifier": "a"})
	require.NoError(t, err)
	assert.Equal(t, "a", p.ClusterIdentifier)
}

func TestFromMap_TypedValues(t *testing.T) {
	t.Parallel()
	p, err := FromMap(map[string]string{
		KeyAvailabilityZones: "eu-west-1a, eu-west-1b,,eu-west-1c",
		KeyPodIdentityAgent:  "false",
		"somethingElse":      "x",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"eu-west-1a", "eu-west-1b", "eu-west-1c"}, p.AvailabilityZones)
	require.NotNil(t, p.PodIdentityAgent)
	assert.False(t, p.PodIdentityAgentEnabled())
	assert.Equal(t, []string{"somethingElse"}, p.UnknownKeys)
}

func TestApplyDefaults(t *testing.T) {
	t.Parallel()
	p, err := FromMap(validRaw())
	require.NoError(t, err)
	p.ApplyDefaults()

	assert.Equal(t, DefaultStackName, p.StackName)
	assert.Equal(t, DefaultRegion, p.Region)
	assert.Equal(t, DefaultPartition, p.Partition)
	assert.Equal(t, DefaultVPCCIDR, p.VPCCIDR)
	assert.Equal(t, []string{"us-east-1a", "us-east-1b"}, p.AvailabilityZones)
	assert.Equal(t, "1.29", p.KubernetesVersion)
	assert.Equal(t, "aws-node", p.VPCCNIDriverServiceAccountName)
	assert.Equal(t, "efs-csi-controller-sa", p.EFSCSIDriverServiceAccountName)
	assert.Equal(t, "aws-load-balancer-controller", p.ALBControllerServiceAccountName)
	assert.True(t, p.PodIdentityAgentEnabled())
	assert.Len(t, p.AcceptedRisks, 5)
	assert.Empty(t, p.OperatorIdentity)
	require.NoError(t, p.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(p *Parameters)
	}{
		{"missing cluster", func(p *Parameters) { p.ClusterIdentifier = "" }},
		{"cluster with slash", func(p *Parameters) { p.ClusterIdentifier = "a/b" }},
		{"missing db name", func(p *Parameters) { p.DatabaseName = "" }},
		{"missing db user", func(p *Parameters) { p.DatabaseUsername = "" }},
		{"bad region", func(p *Parameters) { p.Region = "mars" }},
		{"bad account", func(p *Parameters) { p.AccountID = "12" }},
		{"bad version", func(p *Parameters) { p.KubernetesVersion = "v1.29.0" }},
		{"bad cidr", func(p *Parameters) { p.VPCCIDR = "10.0.0.0" }},
		{"small cidr", func(p *Parameters) { p.VPCCIDR = "10.0.0.0/28" }},
		{"ipv6 cidr", func(p *Parameters) { p.VPCCIDR = "2001:db8::/48" }},
		{"one zone", func(p *Parameters) { p.AvailabilityZones = []string{"us-east-1a"} }},
		{"foreign zone", func(p *Parameters) { p.AvailabilityZones = []string{"us-east-1a", "eu-west-1a"} }},
		{"duplicate zone", func(p *Parameters) { p.AvailabilityZones = []string{"us-east-1a", "us-east-1a"} }},
		{"risk without reason", func(p *Parameters) {
			p.AcceptedRisks = []RiskException{{ID: "AwsSolutions-VPC7", Scope: RiskScopeStack}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := FromMap(validRaw())
			require.NoError(t, err)
			p.ApplyDefaults()
			tt.mutate(p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestPrincipalPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "kube-system/aws-node", PrincipalPath("aws-node"))
	assert.Equal(t, "posit/workbench", PrincipalPath("posit/workbench"))
}

func TestDefaultAcceptedRisks(t *testing.T) {
	t.Parallel()
	risks := DefaultAcceptedRisks()
	ids := make(map[string]bool)
	for _, r := range risks {
		require.NoError(t, r.Validate())
		ids[r.ID] = true
	}
	for _, id := range []string{"AwsSolutions-VPC7", "AwsSolutions-IAM4", "AwsSolutions-EKS1", "AwsSolutions-IAM5"} {
		assert.True(t, ids[id], id)
	}
	assert.Equal(t, "AwsSolutions-EKS1@cluster", risks[2].String())
}
