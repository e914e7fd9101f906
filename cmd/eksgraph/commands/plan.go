package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/eksgraph/cmd/eksgraph/handlers"
)

// Plan returns the command that prints the declared graph without
// submitting anything.
func Plan() *cobra.Command {
	var opts handlers.PlanOptions

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the dependency graph without materializing it",
		Long: `Declare and validate the stack, then print its nodes, edges, build order
and accepted risks. Nothing is submitted.

Examples:
  eksgraph plan -f posit.yaml
  eksgraph plan -f posit.yaml -o yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	bindParameterFlags(cmd, &opts.Parameters)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", handlers.OutputText, "Output format: text, yaml or json")

	return cmd
}
