package config

import "fmt"

// RiskException records a platform-policy finding that is knowingly
// accepted for one part of the composition.
type RiskException struct {
	ID     string `yaml:"id" json:"id"`
	Scope  string `yaml:"scope" json:"scope"`
	Reason string `yaml:"reason" json:"reason"`
}

// Validate requires an identifier, a scope and a reason.
func (r RiskException) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("risk exception without id")
	}
	if r.Scope == "" {
		return fmt.Errorf("risk exception %s: scope is required", r.ID)
	}
	if r.Reason == "" {
		return fmt.Errorf("risk exception %s: reason is required", r.ID)
	}
	return nil
}

func (r RiskException) String() string { return r.ID + "@" + r.Scope }

// Risk scopes name the component a finding applies to.
const (
	RiskScopeStack   = "stack"
	RiskScopeCluster = "cluster"
	RiskScopeAddons  = "addons"
)

// DefaultAcceptedRisks returns the findings accepted for the reference
// deployment.
func DefaultAcceptedRisks() []RiskException {
	return []RiskException{
		{
			ID:     "AwsSolutions-VPC7",
			Scope:  RiskScopeStack,
			Reason: "VPC flow logs are not required for the solution to function. Can be enabled by customers if needed.",
		},
		{
			ID:     "AwsSolutions-IAM4",
			Scope:  RiskScopeCluster,
			Reason: "Accepted minimal risk based on reliability and transferability requirements. Customers can change this to be more resource specific.",
		},
		{
			ID:     "AwsSolutions-EKS1",
			Scope:  RiskScopeCluster,
			Reason: "Solution deployment requires access to the EKS Kube API from the client device. VPC connectivity to the client cannot be assumed.",
		},
		{
			ID:     "AwsSolutions-IAM4",
			Scope:  RiskScopeAddons,
			Reason: "Following EFS driver best-practices.",
		},
		{
			ID:     "AwsSolutions-IAM5",
			Scope:  RiskScopeAddons,
			Reason: "Log groups are dynamically created so it requires broad scope permissions. No significant impact to security.",
		},
	}
}
