// Package manifests renders the Kubernetes objects workloads need to use
// their trust bindings.
package manifests
