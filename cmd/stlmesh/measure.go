package main

import (
	"fmt"
	"io"

	"github.com/philipparndt/stlmesh/pkg/analysis"
	"github.com/philipparndt/stlmesh/pkg/geometry"
	"github.com/philipparndt/stlmesh/pkg/stl"
	"github.com/spf13/cobra"
)

type measureOptions struct {
	point1X, point1Y, point1Z float64
	point2X, point2Y, point2Z float64
}

func newMeasureCmd(c *cli) *cobra.Command {
	opts := &measureOptions{}

	measureCmd := &cobra.Command{
		Use:   "measure [file]",
		Short: "Measure distance between two points",
		Long: `Measure the straight-line distance between two 3D points.
The nearest welded vertex of the mesh is reported for each point.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p1 := geometry.NewVector3(opts.point1X, opts.point1Y, opts.point1Z)
			p2 := geometry.NewVector3(opts.point2X, opts.point2Y, opts.point2Z)

			out := cmd.OutOrStdout()
			return c.withMesh(cmd.Context(), args[0],
				func(mesh *stl.Mesh[float32, uint32]) error { return printMeasurement(out, mesh, p1, p2) },
				func(mesh *stl.Mesh[float64, uint32]) error { return printMeasurement(out, mesh, p1, p2) })
		},
	}

	measureCmd.Flags().Float64Var(&opts.point1X, "x1", 0.0, "X coordinate of first point")
	measureCmd.Flags().Float64Var(&opts.point1Y, "y1", 0.0, "Y coordinate of first point")
	measureCmd.Flags().Float64Var(&opts.point1Z, "z1", 0.0, "Z coordinate of first point")
	measureCmd.Flags().Float64Var(&opts.point2X, "x2", 0.0, "X coordinate of second point")
	measureCmd.Flags().Float64Var(&opts.point2Y, "y2", 0.0, "Y coordinate of second point")
	measureCmd.Flags().Float64Var(&opts.point2Z, "z2", 0.0, "Z coordinate of second point")

	measureCmd.MarkFlagsRequiredTogether("x1", "y1", "z1", "x2", "y2", "z2")

	return measureCmd
}

func printMeasurement[N stl.Number](w io.Writer, mesh *stl.Mesh[N, uint32], p1, p2 geometry.Vector3) error {
	fmt.Fprintln(w, "Point-to-Point Measurement")
	fmt.Fprintln(w, "==========================")

	index1, nearest1, dist1 := analysis.FindNearestVertex(mesh, p1)
	index2, nearest2, dist2 := analysis.FindNearestVertex(mesh, p2)

	fmt.Fprintf(w, "\nPoint 1: %s\n", analysis.FormatVector(p1))
	if index1 >= 0 {
		fmt.Fprintf(w, "  Nearest vertex #%d: %s (distance: %.6f)\n", index1, analysis.FormatVector(nearest1), dist1)
	}

	fmt.Fprintf(w, "\nPoint 2: %s\n", analysis.FormatVector(p2))
	if index2 >= 0 {
		fmt.Fprintf(w, "  Nearest vertex #%d: %s (distance: %.6f)\n", index2, analysis.FormatVector(nearest2), dist2)
	}

	fmt.Fprintf(w, "\nDirect distance: %.6f units\n", p1.Distance(p2))

	if index1 >= 0 && index2 >= 0 {
		fmt.Fprintf(w, "Distance between nearest vertices: %.6f units\n", nearest1.Distance(nearest2))
	}
	return nil
}
