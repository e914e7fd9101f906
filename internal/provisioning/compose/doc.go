// Package compose is the composition root. It runs the declaring phases in
// order, connects the security scopes, declares the output exports and
// materializes the resulting graph through a provider.
package compose
