// Package testing provides test utilities, builders, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ParametersBuilder: Fluent builder for composition parameters
//   - MockProvider: testify mock of the resource provider
//   - GatedProvider: holds chosen submissions until released
//   - FailingProvider: fails chosen submissions
//   - RecordingObserver: captures observer events
//
// Usage:
//
//	params := testutil.NewParametersBuilder().
//	    WithClusterName("posit").
//	    WithOperatorIdentity("arn:aws:iam::111122223333:role/admin").
//	    MustBuild(t)
//
//	gated := testutil.NewGatedProvider(provider.NewSimulator(provider.SimulatorConfig{}), "eks-cluster")
//	defer gated.ReleaseAll()
package testing
