package testing

import (
	"maps"

	"github.com/imamik/eksgraph/internal/config"
)

// TB is the part of testing.TB the builders need. GinkgoT() satisfies it.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// ParametersBuilder provides a fluent interface for constructing test
// parameters. Each method returns a new builder (immutable) for chaining.
type ParametersBuilder struct {
	raw   map[string]string
	risks []config.RiskException
}

// NewParametersBuilder creates a new ParametersBuilder with the required
// keys set.
func NewParametersBuilder() *ParametersBuilder {
	return &ParametersBuilder{
		raw: map[string]string{
			config.KeyClusterIdentifier: "posit",
			config.KeyDatabaseName:      "positdb",
			config.KeyDatabaseUsername:  "posit",
			config.KeyAccountID:         "111122223333",
		},
	}
}

// WithClusterName sets the cluster identifier.
func (b *ParametersBuilder) WithClusterName(name string) *ParametersBuilder {
	return b.Set(config.KeyClusterIdentifier, name)
}

// WithOperatorIdentity sets the principal given temporary admin access.
func (b *ParametersBuilder) WithOperatorIdentity(principalARN string) *ParametersBuilder {
	return b.Set(config.KeyOperatorIdentity, principalARN)
}

// WithIssuerURL pins the cluster issuer.
func (b *ParametersBuilder) WithIssuerURL(url string) *ParametersBuilder {
	return b.Set(config.KeyClusterIssuerURL, url)
}

// WithoutAccountID leaves the account to be taken from the cluster ARN.
func (b *ParametersBuilder) WithoutAccountID() *ParametersBuilder {
	newBuilder := b.clone()
	delete(newBuilder.raw, config.KeyAccountID)
	return newBuilder
}

// WithRisks replaces the accepted risks.
func (b *ParametersBuilder) WithRisks(risks ...config.RiskException) *ParametersBuilder {
	newBuilder := b.clone()
	newBuilder.risks = append([]config.RiskException{}, risks...)
	return newBuilder
}

// Set sets any parameter key.
func (b *ParametersBuilder) Set(key, value string) *ParametersBuilder {
	newBuilder := b.clone()
	newBuilder.raw[key] = value
	return newBuilder
}

// Raw returns the parameter map.
func (b *ParametersBuilder) Raw() map[string]string {
	return maps.Clone(b.raw)
}

// Build decodes, defaults and validates the parameters.
func (b *ParametersBuilder) Build() (*config.Parameters, error) {
	return config.Build(b.Raw(), b.risks)
}

// MustBuild is Build failing the test on error.
func (b *ParametersBuilder) MustBuild(t TB) *config.Parameters {
	t.Helper()
	p, err := b.Build()
	if err != nil {
		t.Fatalf("failed to build parameters: %v", err)
	}
	return p
}

// Unchecked decodes and defaults the parameters without validating them,
// for tests that exercise the validation phase.
func (b *ParametersBuilder) Unchecked(t TB) *config.Parameters {
	t.Helper()
	p, err := config.FromMap(b.Raw())
	if err != nil {
		t.Fatalf("failed to decode parameters: %v", err)
	}
	p.AcceptedRisks = b.risks
	p.ApplyDefaults()
	return p
}

func (b *ParametersBuilder) clone() *ParametersBuilder {
	return &ParametersBuilder{
		raw:   maps.Clone(b.raw),
		risks: b.risks,
	}
}
