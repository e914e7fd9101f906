// Package labels provides consistent tagging for composed resources.
//
// Ownership tags use the eksgraph.io domain prefix. The Kubernetes subnet
// discovery tags used by load balancer controllers are set through the
// same builder.
package labels
