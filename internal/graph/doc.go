// Package graph models a provisioning unit as a directed acyclic graph of
// resource nodes.
//
// # Core Types
//
// Node is one provisionable unit with a kind, an immutable property bag and a
// write-once slot for the attributes the Resource Provider resolves.
// Value is a property: a literal, a reference to another node's resolved
// attribute, a list, or a value derived from references.
// Edge is a dependency between two nodes. Data edges are derived from the
// references in a property bag; ordering edges are declared explicitly.
//
// Graph validates acyclicity and yields a stable topological order, which the
// executor in package provisioning uses to materialize nodes.
package graph
