package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/eksgraph/cmd/eksgraph/handlers"
)

// bindParameterFlags registers the flags shared by compose and plan.
func bindParameterFlags(cmd *cobra.Command, src *handlers.ParameterSource) {
	cmd.Flags().StringVarP(&src.File, "file", "f", "", "Path to a YAML parameter file")
	cmd.Flags().StringArrayVar(&src.Set, "set", nil, "Set a parameter (key=value), repeatable; wins over --file")
	cmd.Flags().BoolVar(&src.OperatorFromCaller, "operator-from-caller", false,
		"Use the caller identity (STS) as operatorIdentity when it is not set")
}
