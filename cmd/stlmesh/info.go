package main

import (
	"fmt"
	"io"

	"github.com/philipparndt/stlmesh/pkg/analysis"
	"github.com/philipparndt/stlmesh/pkg/stl"
	"github.com/spf13/cobra"
)

func newInfoCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "info [file]",
		Short: "Display general information about an STL file",
		Long:  "Show vertex, triangle and solid counts, dimensions, surface area, volume and edge statistics of the welded mesh.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return c.withMesh(cmd.Context(), args[0],
				func(mesh *stl.Mesh[float32, uint32]) error { return printInfo(out, args[0], mesh) },
				func(mesh *stl.Mesh[float64, uint32]) error { return printInfo(out, args[0], mesh) })
		},
	}
}

func printInfo[N stl.Number](w io.Writer, filename string, mesh *stl.Mesh[N, uint32]) error {
	result := analysis.AnalyzeMesh(mesh)

	fmt.Fprintln(w, "STL File Information")
	fmt.Fprintln(w, "====================")
	fmt.Fprintf(w, "File: %s\n\n", filename)

	fmt.Fprintln(w, "Mesh Statistics:")
	fmt.Fprintf(w, "  Vertices: %d\n", result.VertexCount)
	fmt.Fprintf(w, "  Triangles: %d\n", result.TriangleCount)
	fmt.Fprintf(w, "  Solids: %d\n", result.SolidCount)
	fmt.Fprintf(w, "  Edges: %d\n", result.EdgeCount)
	fmt.Fprintf(w, "  Boundary edges: %d\n", result.BoundaryEdges)
	fmt.Fprintf(w, "  Non-manifold edges: %d\n", result.NonManifoldEdges)
	fmt.Fprintf(w, "  Closed: %t\n", result.Closed())
	fmt.Fprintf(w, "  Surface Area: %.6f square units\n\n", result.SurfaceArea)

	if result.BoundingBox.Empty() {
		fmt.Fprintln(w, "The mesh contains no vertices.")
		return nil
	}

	fmt.Fprintln(w, "Bounding Box:")
	fmt.Fprintf(w, "  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Fprintf(w, "  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Fprintf(w, "  Center: %s\n\n", analysis.FormatVector(result.BoundingBox.Center()))

	fmt.Fprintln(w, "Dimensions:")
	fmt.Fprintf(w, "  Width (X): %.6f units\n", result.Dimensions.X)
	fmt.Fprintf(w, "  Depth (Y): %.6f units\n", result.Dimensions.Y)
	fmt.Fprintf(w, "  Height (Z): %.6f units\n", result.Dimensions.Z)
	fmt.Fprintf(w, "  Diagonal: %.6f units\n", result.BoundingBox.Diagonal())
	fmt.Fprintf(w, "  Box Volume: %.6f cubic units\n", result.BoxVolume)
	fmt.Fprintf(w, "  Volume: %.6f cubic units\n\n", result.Volume)

	fmt.Fprintln(w, "Edge Lengths:")
	fmt.Fprintf(w, "  Minimum: %.6f units\n", result.MinEdgeLength)
	fmt.Fprintf(w, "  Maximum: %.6f units\n", result.MaxEdgeLength)
	fmt.Fprintf(w, "  Average: %.6f units\n", result.AvgEdgeLength)
	fmt.Fprintf(w, "  Std. deviation: %.6f units\n", result.StdDevEdgeLength)
	return nil
}
