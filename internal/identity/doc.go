// Package identity derives federated-trust material for cluster workloads.
//
// A cluster publishes an OIDC issuer URL once its control plane exists. The
// Resolver turns that URL into the IAM provider reference used as federated
// principal and the resource path used as condition-key prefix. Trust
// bindings are then built per workload from the resource path and the
// workload's service account (its principal path).
package identity
