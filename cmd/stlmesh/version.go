package main

import (
	"fmt"

	"github.com/philipparndt/stlmesh/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stlmesh %s\n", version.GetFullVersion())
		},
	}
}
