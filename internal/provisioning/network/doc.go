// Package network declares the VPC and its public and private subnet
// partitions.
//
// Public subnets carry the internet-facing load balancer tag; private
// subnets carry the internal one. Both are tagged as owned by the cluster
// so the load balancer controller can discover them.
package network
