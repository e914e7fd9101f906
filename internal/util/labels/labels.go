package labels

import "maps"

// Standard tag keys.
const (
	// KeyStack identifies which stack a resource belongs to
	KeyStack = "eksgraph.io/stack"

	// KeyComponent identifies the component that declared the resource
	KeyComponent = "eksgraph.io/component"

	// KeyManagedBy identifies the management system
	KeyManagedBy = "eksgraph.io/managed-by"

	// KeyTemporary marks grants that must be revoked after first use
	KeyTemporary = "eksgraph.io/temporary"

	// KeyPublicLoadBalancer marks subnets for internet-facing load balancers
	KeyPublicLoadBalancer = "kubernetes.io/role/elb"

	// KeyInternalLoadBalancer marks subnets for internal load balancers
	KeyInternalLoadBalancer = "kubernetes.io/role/internal-elb"

	clusterOwnershipPrefix = "kubernetes.io/cluster/"
)

// ManagedBy values
const (
	ManagedByEksgraph = "eksgraph"
)

// ClusterOwnershipKey returns the tag key that ties a subnet to a cluster.
func ClusterOwnershipKey(clusterName string) string {
	return clusterOwnershipPrefix + clusterName
}

// LabelBuilder provides a fluent interface for building resource tags.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a new tag builder with the stack name pre-set.
func NewLabelBuilder(stackName string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyStack:     stackName,
			KeyManagedBy: ManagedByEksgraph,
		},
	}
}

// WithComponent adds the declaring component (network, cluster, ...).
func (lb *LabelBuilder) WithComponent(component string) *LabelBuilder {
	lb.labels[KeyComponent] = component
	return lb
}

// WithClusterOwnership marks the resource as owned by the named cluster.
func (lb *LabelBuilder) WithClusterOwnership(clusterName string) *LabelBuilder {
	lb.labels[ClusterOwnershipKey(clusterName)] = "owned"
	return lb
}

// WithPublicLoadBalancers marks a subnet for internet-facing load balancers.
func (lb *LabelBuilder) WithPublicLoadBalancers() *LabelBuilder {
	lb.labels[KeyPublicLoadBalancer] = "1"
	return lb
}

// WithInternalLoadBalancers marks a subnet for internal load balancers.
func (lb *LabelBuilder) WithInternalLoadBalancers() *LabelBuilder {
	lb.labels[KeyInternalLoadBalancer] = "1"
	return lb
}

// WithTemporary marks a grant for revocation after first use.
func (lb *LabelBuilder) WithTemporary() *LabelBuilder {
	lb.labels[KeyTemporary] = "true"
	return lb
}

// Merge adds all labels from the provided map.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	maps.Copy(lb.labels, extra)
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	return maps.Clone(lb.labels)
}

// IsTemporary reports whether tags carry the temporary marker.
func IsTemporary(tags map[string]string) bool {
	return tags[KeyTemporary] == "true"
}
