// Package provider defines the Resource Provider contract the executor
// submits nodes to, classifies provider failures, and ships a simulated
// provider that assigns deterministic runtime attributes.
package provider
