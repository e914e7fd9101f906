package identity

import (
	"fmt"
	"strings"
)

const (
	// FederationAudience is the audience projected service account tokens
	// carry for STS.
	FederationAudience = "sts.amazonaws.com"
	// AssumeRoleWithWebIdentity is the only action a federated grant allows.
	AssumeRoleWithWebIdentity = "sts:AssumeRoleWithWebIdentity"
	// ConditionStringEquals is the exact-match condition operator.
	ConditionStringEquals = "StringEquals"
)

// TrustCondition maps condition keys to the values a token must carry.
type TrustCondition map[string]string

// NewTrustCondition requires both the federation audience and the exact
// service account subject, keyed by the provider's resource path.
func NewTrustCondition(ref ProviderReference, principal PrincipalPath) (TrustCondition, error) {
	if ref.ResourcePath == "" {
		return nil, fmt.Errorf("trust condition for %s: provider resource path is empty", principal)
	}
	if strings.Contains(ref.ResourcePath, "://") {
		return nil, fmt.Errorf("trust condition for %s: %q is a URL, not a resource path", principal, ref.ResourcePath)
	}
	if principal.Namespace == "" || principal.ServiceAccount == "" {
		return nil, fmt.Errorf("%w %q", ErrInvalidPrincipalPath, principal)
	}
	return TrustCondition{
		ref.ResourcePath + ":aud": FederationAudience,
		ref.ResourcePath + ":sub": principal.Subject(),
	}, nil
}

// Grant is a role usable only by one workload identity.
type Grant struct {
	Principal       PrincipalPath
	ProviderARN     string
	Condition       TrustCondition
	ManagedPolicies []string
	InlinePolicies  []InlinePolicy
}

// BuildGrant assembles a Grant for principal.
func BuildGrant(ref ProviderReference, principal PrincipalPath, managed []string, inline ...InlinePolicy) (*Grant, error) {
	if ref.ARN == "" {
		return nil, fmt.Errorf("grant for %s: provider arn is empty", principal)
	}
	cond, err := NewTrustCondition(ref, principal)
	if err != nil {
		return nil, err
	}
	for _, p := range inline {
		if p.Name == "" {
			return nil, fmt.Errorf("grant for %s: inline policy without a name", principal)
		}
		if err := p.Document.Validate(); err != nil {
			return nil, fmt.Errorf("grant for %s: inline policy %s: %w", principal, p.Name, err)
		}
	}
	return &Grant{
		Principal:       principal,
		ProviderARN:     ref.ARN,
		Condition:       cond,
		ManagedPolicies: append([]string(nil), managed...),
		InlinePolicies:  append([]InlinePolicy(nil), inline...),
	}, nil
}

// AssumeRolePolicy renders the trust policy of the grant.
func (g *Grant) AssumeRolePolicy() PolicyDocument {
	values := make(map[string]StringList, len(g.Condition))
	for k, v := range g.Condition {
		values[k] = StringList{v}
	}
	return PolicyDocument{
		Version: PolicyVersion,
		Statement: []Statement{{
			Effect:    "Allow",
			Principal: map[string]StringList{"Federated": {g.ProviderARN}},
			Action:    StringList{AssumeRoleWithWebIdentity},
			Condition: Condition{ConditionStringEquals: values},
		}},
	}
}

// ServicePrincipalPolicy renders a trust policy for an AWS service
// principal such as eks.amazonaws.com.
func ServicePrincipalPolicy(service string) PolicyDocument {
	return PolicyDocument{
		Version: PolicyVersion,
		Statement: []Statement{{
			Effect:    "Allow",
			Principal: map[string]StringList{"Service": {service}},
			Action:    StringList{"sts:AssumeRole"},
		}},
	}
}

// AccountRootPolicy renders a trust policy that lets any principal of the
// account with matching IAM permissions assume the role.
func AccountRootPolicy(partition, accountID string) PolicyDocument {
	if partition == "" {
		partition = DefaultPartition
	}
	return PolicyDocument{
		Version: PolicyVersion,
		Statement: []Statement{{
			Effect:    "Allow",
			Principal: map[string]StringList{"AWS": {fmt.Sprintf("arn:%s:iam::%s:root", partition, accountID)}},
			Action:    StringList{"sts:AssumeRole"},
		}},
	}
}
