// Package ingress declares the public entry point: the load balancer
// controller's trust binding and the security scope the load balancers
// run in. The scope admits HTTP and HTTPS from anywhere and nothing else.
package ingress
