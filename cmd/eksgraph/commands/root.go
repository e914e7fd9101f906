// Package commands defines the CLI command structure and flag bindings.
//
// Commands parse arguments and delegate to the handlers package.
package commands

import (
	"context"
	"flag"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// Root returns the root command for the eksgraph CLI. Logging flags
// (--zap-devel, --zap-log-level, ...) are shared by every subcommand.
func Root() *cobra.Command {
	opts := zap.Options{Development: false}
	goFlags := flag.NewFlagSet("eksgraph", flag.ContinueOnError)
	opts.BindFlags(goFlags)

	cmd := &cobra.Command{
		Use:           "eksgraph",
		Short:         "Compose the Posit SCE EKS stack as a dependency graph",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			logger := zap.New(zap.UseFlagOptions(&opts))
			cmd.SetContext(logr.NewContext(ctx, logger))
		},
	}
	cmd.PersistentFlags().AddGoFlagSet(goFlags)

	cmd.AddCommand(Compose())
	cmd.AddCommand(Plan())
	cmd.AddCommand(Version())

	return cmd
}
