package main

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/philipparndt/stlmesh/pkg/analysis"
	"github.com/philipparndt/stlmesh/pkg/stl"
	"github.com/spf13/cobra"
)

type trianglesOptions struct {
	count    int
	largest  bool
	smallest bool
}

type triangleInfo struct {
	Index     int
	Solid     int
	Area      float64
	Perimeter float64
	Corners   [3]uint32
	Vertices  string
}

func newTrianglesCmd(c *cli) *cobra.Command {
	opts := &trianglesOptions{}

	trianglesCmd := &cobra.Command{
		Use:   "triangles [file]",
		Short: "Analyze triangles in an STL file",
		Long:  "Display area, perimeter, welded vertex indices and owning solid of the triangles in a mesh.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.count < 0 {
				return fmt.Errorf("count must not be negative, got %d", opts.count)
			}

			out := cmd.OutOrStdout()
			return c.withMesh(cmd.Context(), args[0],
				func(mesh *stl.Mesh[float32, uint32]) error { return printTriangles(out, mesh, opts) },
				func(mesh *stl.Mesh[float64, uint32]) error { return printTriangles(out, mesh, opts) })
		},
	}

	trianglesCmd.Flags().IntVarP(&opts.count, "count", "n", 10, "Number of triangles to display")
	trianglesCmd.Flags().BoolVarP(&opts.largest, "largest", "l", false, "Show largest triangles by area")
	trianglesCmd.Flags().BoolVarP(&opts.smallest, "smallest", "s", false, "Show smallest triangles by area")
	trianglesCmd.MarkFlagsMutuallyExclusive("largest", "smallest")

	return trianglesCmd
}

func collectTriangles[N stl.Number](mesh *stl.Mesh[N, uint32]) []triangleInfo {
	triangles := make([]triangleInfo, 0, mesh.NumTris())

	for s := range mesh.NumSolids() {
		for t := int(mesh.SolidTrisBegin(s)); t < int(mesh.SolidTrisEnd(s)); t++ {
			tri := mesh.Triangle(t)
			triangles = append(triangles, triangleInfo{
				Index:     t,
				Solid:     s,
				Area:      tri.Area(),
				Perimeter: tri.Perimeter(),
				Corners:   mesh.TriIndices(t),
				Vertices: fmt.Sprintf("%s, %s, %s",
					analysis.FormatVector(tri.V1),
					analysis.FormatVector(tri.V2),
					analysis.FormatVector(tri.V3)),
			})
		}
	}
	return triangles
}

func printTriangles[N stl.Number](w io.Writer, mesh *stl.Mesh[N, uint32], opts *trianglesOptions) error {
	triangles := collectTriangles(mesh)

	totalArea := 0.0
	minArea := math.MaxFloat64
	maxArea := 0.0
	for _, tri := range triangles {
		totalArea += tri.Area
		minArea = min(minArea, tri.Area)
		maxArea = max(maxArea, tri.Area)
	}

	var title string
	switch {
	case opts.largest:
		sort.SliceStable(triangles, func(i, j int) bool {
			return triangles[i].Area > triangles[j].Area
		})
		title = "Largest Triangles"
	case opts.smallest:
		sort.SliceStable(triangles, func(i, j int) bool {
			return triangles[i].Area < triangles[j].Area
		})
		title = "Smallest Triangles"
	default:
		title = "Triangles"
	}

	fmt.Fprintln(w, title)
	fmt.Fprintln(w, "====================")
	fmt.Fprintf(w, "Total triangles: %d\n", len(triangles))
	if len(triangles) == 0 {
		return nil
	}
	fmt.Fprintf(w, "Total surface area: %.6f square units\n", totalArea)
	fmt.Fprintf(w, "Min triangle area: %.6f square units\n", minArea)
	fmt.Fprintf(w, "Max triangle area: %.6f square units\n", maxArea)
	fmt.Fprintf(w, "Avg triangle area: %.6f square units\n\n", totalArea/float64(len(triangles)))

	count := min(opts.count, len(triangles))
	for _, tri := range triangles[:count] {
		fmt.Fprintf(w, "Triangle #%d (solid %d):\n", tri.Index, tri.Solid)
		fmt.Fprintf(w, "  Area: %.6f square units\n", tri.Area)
		fmt.Fprintf(w, "  Perimeter: %.6f units\n", tri.Perimeter)
		fmt.Fprintf(w, "  Corners: %d %d %d\n", tri.Corners[0], tri.Corners[1], tri.Corners[2])
		fmt.Fprintf(w, "  Vertices: %s\n\n", tri.Vertices)
	}
	return nil
}
