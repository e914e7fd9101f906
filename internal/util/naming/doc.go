// Package naming provides the logical identifiers and physical names of
// composed resources.
//
// Logical identifiers are unique within one graph and stable across runs,
// so a repeated composition reconciles the same resources. Physical names
// are what the provider creates.
package naming
