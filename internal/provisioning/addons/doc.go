// Package addons declares cluster extensions in their activation order.
//
// An extension is NotRequested until the Installer declares it, Requested
// once its node is in the graph, and Active once the provider resolved it.
// The Installer enforces the partial order between extensions while
// declaring, so a violation is reported before anything is submitted.
package addons
