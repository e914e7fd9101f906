// Package cluster declares the managed Kubernetes control plane and
// everything tied to it.
//
// That covers the service and node roles, the worker pools, the OIDC
// identity provider registered from the control plane's issuer, and the
// access entries granting cluster admin. An operator identity, when given,
// receives a temporary admin entry that is tagged and audited so it can be
// revoked after first use.
package cluster
