// Package provisioning provides shared types, interfaces, and orchestration
// for composing a Posit SCE environment.
//
// # Subpackages
//
//   - network/: VPC and subnet partitions
//   - cluster/: control plane, worker pools, OIDC provider, access entries
//   - trust/: federated trust bindings for cluster workloads
//   - addons/: cluster extensions and their activation order
//   - storage/: shared filesystem and access partitions
//   - database/: relational store and credential secret
//   - ingress/: externally reachable entry point
//   - reachability/: rules between security scopes
//   - compose/: the composition root
//
// # Core Types
//
// Context carries parameters, the dependency graph, state, and observer.
// Phase defines a declaration step with Name() and Provision() methods.
// State accumulates the handles each phase declares. The Executor
// materializes the finished graph through a Resource Provider.
package provisioning
