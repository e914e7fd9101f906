package provisioning

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws/arn"

	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/identity"
)

// Role property keys.
const (
	PropRoleName         = "roleName"
	PropAssumeRolePolicy = "assumeRolePolicyDocument"
	PropManagedPolicies  = "managedPolicyArns"
	PropInlinePolicies   = "policies"
)

// RoleProperties builds the property bag of a role. trust must resolve to
// a rendered policy document.
func RoleProperties(name string, trust graph.Value, managed []string, inline ...identity.InlinePolicy) (graph.Properties, error) {
	props := graph.Properties{
		PropRoleName:         graph.Lit(name),
		PropAssumeRolePolicy: trust,
	}
	if len(managed) > 0 {
		props[PropManagedPolicies] = graph.Lit(append([]string(nil), managed...))
	}
	if len(inline) > 0 {
		policies := make([]map[string]any, 0, len(inline))
		for _, p := range inline {
			doc, err := p.Document.JSON()
			if err != nil {
				return nil, fmt.Errorf("inline policy %s: %w", p.Name, err)
			}
			policies = append(policies, map[string]any{
				"policyName":     p.Name,
				"policyDocument": doc,
			})
		}
		props[PropInlinePolicies] = graph.Lit(policies)
	}
	return props, nil
}

// PolicyValue renders doc as a literal property value.
func PolicyValue(doc identity.PolicyDocument) (graph.Value, error) {
	s, err := doc.JSON()
	if err != nil {
		return nil, err
	}
	return graph.Lit(s), nil
}

// AccountIDFromARN returns the account segment of a resource ARN.
func AccountIDFromARN(resourceARN string) (string, error) {
	parsed, err := arn.Parse(resourceARN)
	if err != nil {
		return "", fmt.Errorf("account id from %q: %w", resourceARN, err)
	}
	if parsed.AccountID == "" {
		return "", fmt.Errorf("account id from %q: arn has no account", resourceARN)
	}
	return parsed.AccountID, nil
}
