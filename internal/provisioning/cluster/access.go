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

// Access entry names.
const (
	AccessAdmin    = "admin"
	AccessOperator = "operator"
)

// AccessPolicyARN returns the ARN of a cluster access policy.
func AccessPolicyARN(partition, policy string) string {
	if partition == "" {
		partition = identity.DefaultPartition
	}
	return fmt.Sprintf("arn:%s:eks::aws:cluster-access-policy/%s", partition, policy)
}

func clusterAdminPolicies(partition string) []map[string]any {
	return []map[string]any{{
		"policyArn":   AccessPolicyARN(partition, ClusterAdminPolicy),
		"accessScope": map[string]any{"type": "cluster"},
	}}
}

// declareAccess adds the account-assumable admin role with its access entry
// and, if an operator identity is known, the temporary operator entry.
func declareAccess(g *graph.Graph, params *config.Parameters, result *Result, tags map[string]string) error {
	state := result.State

	trust, err := adminTrust(params, state)
	if err != nil {
		return err
	}
	props, err := provisioning.RoleProperties(naming.AdminRoleName(params.ClusterIdentifier), trust, nil)
	if err != nil {
		return err
	}
	state.AdminRole, err = g.Add(graph.NewNode(naming.AdminRole, graph.KindRole, props, graph.WithTags(tags)))
	if err != nil {
		return err
	}

	admin, err := declareEntry(g, params, state, AccessAdmin, state.AdminRole.Ref(graph.AttrARN), tags)
	if err != nil {
		return err
	}
	state.AccessEntries = append(state.AccessEntries, admin)

	if params.OperatorIdentity == "" {
		return nil
	}

	tmpTags := labels.NewLabelBuilder(params.StackName).WithComponent("cluster").WithTemporary().Build()
	operator, err := declareEntry(g, params, state, AccessOperator, graph.Lit(params.OperatorIdentity), tmpTags)
	if err != nil {
		return err
	}
	state.AccessEntries = append(state.AccessEntries, operator)
	state.TemporaryAccess = operator
	result.TemporaryGrant = params.OperatorIdentity
	return nil
}

// adminTrust lets the account root assume the admin role. Without a known
// account id the account is read from the control plane's ARN.
func adminTrust(params *config.Parameters, state *provisioning.ClusterState) (graph.Value, error) {
	if params.AccountID != "" {
		return provisioning.PolicyValue(identity.AccountRootPolicy(params.Partition, params.AccountID))
	}
	return graph.Derive(func(args ...string) (any, error) {
		account, err := provisioning.AccountIDFromARN(args[0])
		if err != nil {
			return nil, err
		}
		return identity.AccountRootPolicy(params.Partition, account).JSON()
	}, state.ARN()), nil
}

func declareEntry(g *graph.Graph, params *config.Parameters, state *provisioning.ClusterState, name string, principal graph.Value, tags map[string]string) (*graph.Node, error) {
	n, err := g.Add(graph.NewNode(naming.AccessEntry(name), graph.KindAccessEntry, graph.Properties{
		PropClusterName:    state.ControlPlane.Ref(graph.AttrName),
		PropPrincipalARN:   principal,
		PropAccessPolicies: graph.Lit(clusterAdminPolicies(params.Partition)),
	}, graph.WithTags(tags)))
	if err != nil {
		return nil, err
	}
	return n, nil
}
