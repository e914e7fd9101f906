// Package trust declares federated trust bindings: roles that exactly one
// cluster workload can assume through the cluster's OIDC provider.
//
// The assume-role policy is derived from the control plane's resolved
// issuer URL, so a binding materializes only after the control plane and
// its identity provider. When the issuer is known up front it is resolved
// while declaring, and a malformed value aborts before anything is
// submitted.
package trust
