package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/stlmesh/pkg/geometry"
	"github.com/philipparndt/stlmesh/pkg/stl"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// EdgeInfo describes an edge between two welded vertices
type EdgeInfo struct {
	From, To   int
	Start      geometry.Vector3
	End        geometry.Vector3
	Length     float64
	TriangleID int // first triangle using the edge
	Uses       int // number of triangles sharing the edge
}

// MeasurementResult contains various measurements of a welded mesh
type MeasurementResult struct {
	BoundingBox      geometry.BoundingBox
	Dimensions       geometry.Vector3
	BoxVolume        float64
	Volume           float64 // enclosed volume, meaningful for closed meshes
	SurfaceArea      float64
	VertexCount      int
	TriangleCount    int
	SolidCount       int
	EdgeCount        int
	BoundaryEdges    int // edges used by a single triangle
	NonManifoldEdges int // edges shared by more than two triangles
	MinEdgeLength    float64
	MaxEdgeLength    float64
	AvgEdgeLength    float64
	StdDevEdgeLength float64
	AllEdges         []EdgeInfo
}

// Closed reports whether every edge is shared by exactly two triangles
func (r *MeasurementResult) Closed() bool {
	return r.EdgeCount > 0 && r.BoundaryEdges == 0 && r.NonManifoldEdges == 0
}

// AnalyzeMesh measures a welded mesh. Edges are identified by their vertex
// pair, so an edge shared by neighbouring triangles is counted once.
func AnalyzeMesh[N stl.Number, I stl.Index](mesh *stl.Mesh[N, I]) *MeasurementResult {
	result := &MeasurementResult{
		BoundingBox:   mesh.BoundingBox(),
		VertexCount:   mesh.NumVrts(),
		TriangleCount: mesh.NumTris(),
		SolidCount:    mesh.NumSolids(),
		AllEdges:      make([]EdgeInfo, 0),
	}

	result.Dimensions = result.BoundingBox.Size()
	result.BoxVolume = result.BoundingBox.Volume()

	edgeIndex := make(map[[2]int]int)
	for t := 0; t < mesh.NumTris(); t++ {
		triangle := mesh.Triangle(t)
		result.SurfaceArea += triangle.Area()
		result.Volume += triangle.SignedVolume()

		idx := mesh.TriIndices(t)
		for c := 0; c < 3; c++ {
			a, b := int(idx[c]), int(idx[(c+1)%3])
			if a > b {
				a, b = b, a
			}
			key := [2]int{a, b}
			if i, ok := edgeIndex[key]; ok {
				result.AllEdges[i].Uses++
				continue
			}

			start, end := mesh.Vertex(a), mesh.Vertex(b)
			edgeIndex[key] = len(result.AllEdges)
			result.AllEdges = append(result.AllEdges, EdgeInfo{
				From:       a,
				To:         b,
				Start:      start,
				End:        end,
				Length:     start.Distance(end),
				TriangleID: t,
				Uses:       1,
			})
		}
	}
	result.Volume = math.Abs(result.Volume)

	result.EdgeCount = len(result.AllEdges)
	if result.EdgeCount == 0 {
		return result
	}

	lengths := make([]float64, result.EdgeCount)
	for i, edge := range result.AllEdges {
		lengths[i] = edge.Length
		switch {
		case edge.Uses == 1:
			result.BoundaryEdges++
		case edge.Uses > 2:
			result.NonManifoldEdges++
		}
	}

	result.MinEdgeLength = floats.Min(lengths)
	result.MaxEdgeLength = floats.Max(lengths)
	result.AvgEdgeLength = stat.Mean(lengths, nil)
	result.StdDevEdgeLength = math.Sqrt(stat.PopVariance(lengths, nil))

	return result
}

// FindEdgesByLength finds all edges within a length range
func FindEdgesByLength(result *MeasurementResult, minLength, maxLength float64) []EdgeInfo {
	var edges []EdgeInfo
	for _, edge := range result.AllEdges {
		if edge.Length >= minLength && edge.Length <= maxLength {
			edges = append(edges, edge)
		}
	}
	return edges
}

// FindLongestEdges returns the N longest edges in the mesh
func FindLongestEdges(result *MeasurementResult, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool {
		return a.Length > b.Length
	})
}

// FindShortestEdges returns the N shortest edges in the mesh
func FindShortestEdges(result *MeasurementResult, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool {
		return a.Length < b.Length
	})
}

func sortedEdges(result *MeasurementResult, count int, less func(a, b EdgeInfo) bool) []EdgeInfo {
	edges := make([]EdgeInfo, len(result.AllEdges))
	copy(edges, result.AllEdges)

	sort.SliceStable(edges, func(i, j int) bool {
		return less(edges[i], edges[j])
	})

	if count > len(edges) {
		count = len(edges)
	}

	return edges[:count]
}

// FindNearestVertex finds the welded vertex nearest to a given point. It
// returns -1 for a mesh without vertices.
func FindNearestVertex[N stl.Number, I stl.Index](mesh *stl.Mesh[N, I], point geometry.Vector3) (int, geometry.Vector3, float64) {
	nearest := -1
	var nearestVertex geometry.Vector3
	minDistance := math.MaxFloat64

	for v := 0; v < mesh.NumVrts(); v++ {
		vertex := mesh.Vertex(v)
		if distance := point.Distance(vertex); distance < minDistance {
			nearest = v
			minDistance = distance
			nearestVertex = vertex
		}
	}

	return nearest, nearestVertex, minDistance
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
