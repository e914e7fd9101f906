// Package reachability declares network reachability rules between
// security scopes.
//
// A rule whose peer is another scope is declared as its own graph node with
// data edges on both scopes, so it is only submitted once both scopes have
// resolved identifiers.
package reachability
