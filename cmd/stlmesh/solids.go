package main

import (
	"fmt"
	"io"

	"github.com/philipparndt/stlmesh/pkg/stl"
	"github.com/spf13/cobra"
)

func newSolidsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "solids [file]",
		Short: "List the solids of an STL file",
		Long:  "Show the name and triangle range of every solid. Triangles that appear before the first solid keyword form an unnamed solid.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return c.withMesh(cmd.Context(), args[0],
				func(mesh *stl.Mesh[float32, uint32]) error { return printSolids(out, mesh) },
				func(mesh *stl.Mesh[float64, uint32]) error { return printSolids(out, mesh) })
		},
	}
}

func printSolids[N stl.Number](w io.Writer, mesh *stl.Mesh[N, uint32]) error {
	fmt.Fprintf(w, "Solids: %d\n", mesh.NumSolids())
	fmt.Fprintf(w, "%-6s %-24s %-10s %-10s %-10s\n", "Index", "Name", "Begin", "End", "Triangles")
	fmt.Fprintln(w, "--------------------------------------------------------------")

	for s := range mesh.NumSolids() {
		begin, end := mesh.SolidTrisBegin(s), mesh.SolidTrisEnd(s)
		name := mesh.SolidName(s)
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%-6d %-24s %-10d %-10d %-10d\n", s, name, begin, end, end-begin)
	}
	return nil
}
