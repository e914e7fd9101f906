// Package storage declares the shared filesystem, its security scope and
// the access partitions the workloads mount.
package storage
