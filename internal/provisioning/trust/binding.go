package trust

import (
	"fmt"

	"github.com/imamik/eksgraph/internal/config"
	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/identity"
	"github.com/imamik/eksgraph/internal/provisioning"
	"github.com/imamik/eksgraph/internal/util/labels"
	"github.com/imamik/eksgraph/internal/util/naming"
)

// Well-known binding names.
const (
	BindingVPCCNI        = "vpc-cni"
	BindingEFSCSI        = "efs-csi"
	BindingALBController = "alb-controller"
)

// Spec describes one workload's binding.
type Spec struct {
	Name string
	// ServiceAccount is "name" (system namespace) or "namespace/name".
	ServiceAccount string
	// ManagedPolicies are AWS managed policy names.
	ManagedPolicies []string
	InlinePolicies  []identity.InlinePolicy
}

// DefaultSpecs returns the bindings the cluster extensions need.
func DefaultSpecs(params *config.Parameters) []Spec {
	return []Spec{
		{
			Name:            BindingVPCCNI,
			ServiceAccount:  params.VPCCNIDriverServiceAccountName,
			ManagedPolicies: []string{"AmazonEKS_CNI_Policy"},
			InlinePolicies: []identity.InlinePolicy{{
				Name: "cwlogs",
				Document: identity.PolicyDocument{
					Version: identity.PolicyVersion,
					Statement: []identity.Statement{identity.AllowStatement([]string{
						"logs:DescribeLogGroups",
						"logs:CreateLogGroup",
						"logs:CreateLogStream",
						"logs:PutLogEvents",
					}, "*")},
				},
			}},
		},
		{
			Name:            BindingEFSCSI,
			ServiceAccount:  params.EFSCSIDriverServiceAccountName,
			ManagedPolicies: []string{"service-role/AmazonEFSCSIDriverPolicy"},
		},
	}
}

// NewFederation prepares the resolver and, if the issuer is pinned,
// resolves it now so a malformed pin fails before anything is submitted.
func NewFederation(params *config.Parameters) (*provisioning.FederationState, error) {
	fed := &provisioning.FederationState{
		Resolver: identity.Resolver{
			Partition: params.Partition,
			Region:    params.Region,
			AccountID: params.AccountID,
		},
	}
	if params.ClusterIssuerURL == "" {
		return fed, nil
	}
	ref, err := fed.Resolver.Resolve(params.ClusterIssuerURL)
	if err != nil {
		return nil, err
	}
	fed.Pinned = &ref
	return fed, nil
}

// Declare adds the role for spec. The principal path and inline policies
// are validated before anything is added to g.
func Declare(g *graph.Graph, params *config.Parameters, cluster *provisioning.ClusterState, fed *provisioning.FederationState, spec Spec) (*provisioning.TrustBindingState, error) {
	id := naming.TrustBinding(spec.Name)
	if cluster == nil || fed == nil {
		return nil, &graph.NodeError{NodeID: id, Err: fmt.Errorf("%w: cluster and federation must be declared first", provisioning.ErrMissingPrerequisite)}
	}

	principal, err := identity.ParsePrincipalPath(config.PrincipalPath(spec.ServiceAccount))
	if err != nil {
		return nil, &graph.NodeError{NodeID: id, Err: err}
	}
	for _, p := range spec.InlinePolicies {
		if err := p.Document.Validate(); err != nil {
			return nil, &graph.NodeError{NodeID: id, Err: fmt.Errorf("inline policy %s: %w", p.Name, err)}
		}
	}

	managed := make([]string, 0, len(spec.ManagedPolicies))
	for _, name := range spec.ManagedPolicies {
		managed = append(managed, identity.ManagedPolicyARN(params.Partition, name))
	}

	trustPolicy := assumeRolePolicy(cluster, fed, principal, managed, spec.InlinePolicies)
	props, err := provisioning.RoleProperties(naming.TrustBindingRole(params.ClusterIdentifier, spec.Name), trustPolicy, managed, spec.InlinePolicies...)
	if err != nil {
		return nil, &graph.NodeError{NodeID: id, Err: err}
	}
	tags := labels.NewLabelBuilder(params.StackName).WithComponent("trust").Build()
	role, err := g.Add(graph.NewNode(id, graph.KindTrustBinding, props, graph.WithTags(tags)))
	if err != nil {
		return nil, err
	}
	if err := g.AddOrderingEdge(cluster.IdentityProvider.ID(), role.ID(), "identity provider registered"); err != nil {
		return nil, err
	}

	return &provisioning.TrustBindingState{
		Name:            spec.Name,
		Principal:       principal,
		Role:            role,
		ManagedPolicies: managed,
		InlinePolicies:  inlineNames(spec.InlinePolicies),
	}, nil
}

// assumeRolePolicy defers the trust policy until the control plane's issuer
// and ARN resolve. A pinned issuer must match the resolved one.
func assumeRolePolicy(cluster *provisioning.ClusterState, fed *provisioning.FederationState, principal identity.PrincipalPath, managed []string, inline []identity.InlinePolicy) graph.Value {
	return graph.Derive(func(args ...string) (any, error) {
		issuerURL, clusterARN := args[0], args[1]
		resolver := fed.Resolver
		if resolver.AccountID == "" {
			account, err := provisioning.AccountIDFromARN(clusterARN)
			if err != nil {
				return nil, err
			}
			resolver.AccountID = account
		}
		ref, err := resolver.Resolve(issuerURL)
		if err != nil {
			return nil, err
		}
		if fed.Pinned != nil && fed.Pinned.ResourcePath != ref.ResourcePath {
			return nil, fmt.Errorf("%w: cluster resolved %s, pinned %s", identity.ErrIssuerMismatch, ref.ResourcePath, fed.Pinned.ResourcePath)
		}
		grant, err := identity.BuildGrant(ref, principal, managed, inline...)
		if err != nil {
			return nil, err
		}
		return grant.AssumeRolePolicy().JSON()
	}, cluster.IssuerURL(), cluster.ARN())
}

func inlineNames(policies []identity.InlinePolicy) []string {
	names := make([]string, 0, len(policies))
	for _, p := range policies {
		names = append(names, p.Name)
	}
	return names
}
