package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/eksgraph/cmd/eksgraph/handlers"
)

// Compose returns the command that materializes the stack.
//
// Optional flags:
//
//	--file, -f: YAML parameter file
//	--set: key=value parameter override (repeatable)
//	--service-accounts: write ServiceAccount manifests to this path ("-" for stdout)
//	--publish-bucket: publish outputs to s3://<bucket>/<prefix>/<stack>/outputs.json
//	--metrics-textfile: write executor metrics in the Prometheus text format
func Compose() *cobra.Command {
	var opts handlers.ComposeOptions

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Materialize the stack and print its outputs",
		Long: `Declare every component of the stack, materialize the graph through the
provider and print the stack outputs.

Nodes are submitted as soon as everything they depend on has resolved.
A failure stops further submissions; nodes that already resolved stay.

Examples:
  # Compose with a parameter file
  eksgraph compose -f posit.yaml

  # Override single parameters
  eksgraph compose --set clusterIdentifier=posit --set databaseName=positdb --set databaseUsername=posit

  # Write service accounts and publish outputs
  eksgraph compose -f posit.yaml --service-accounts sa.yaml --publish-bucket my-outputs`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Compose(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	bindParameterFlags(cmd, &opts.Parameters)
	cmd.Flags().StringVar(&opts.ServiceAccountsPath, "service-accounts", "", `Write ServiceAccount manifests to this path ("-" for stdout)`)
	cmd.Flags().StringVar(&opts.MetricsTextfile, "metrics-textfile", "", "Write executor metrics to this file")
	cmd.Flags().StringVar(&opts.Publish.Bucket, "publish-bucket", "", "S3 bucket to publish outputs to")
	cmd.Flags().StringVar(&opts.Publish.Prefix, "publish-prefix", "", "Key prefix for published outputs")
	cmd.Flags().StringVar(&opts.Publish.Endpoint, "publish-endpoint", "", "S3 endpoint override for S3-compatible stores")

	return cmd
}
