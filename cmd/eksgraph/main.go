// Package main is the entry point for the eksgraph CLI.
//
// eksgraph composes the Posit SCE EKS stack as a dependency graph: network,
// cluster, identity federation, trust bindings, extensions, storage,
// database and ingress. It can print the plan, materialize it through a
// provider and publish the stack outputs.
//
// Commands: compose, plan, version.
//
// For detailed usage information, run:
//
//	eksgraph --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/eksgraph/cmd/eksgraph/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
