package stl

import (
	"github.com/philipparndt/stlmesh/pkg/geometry"
)

// Mesh is a welded triangle mesh.
//
// Coords and Normals hold triples of components. Tris holds triples of
// indices into the vertices of Coords. SolidRanges holds one boundary more
// than there are solids: solid s owns the triangles
// [SolidRanges[s], SolidRanges[s+1]).
type Mesh[N Number, I Index] struct {
	Coords      []N
	Normals     []N
	Tris        []I
	SolidRanges []I

	// Names holds the name of each solid as written after the solid
	// keyword, or the trimmed header of a binary file.
	Names []string
}

// NumVrts returns the number of unique vertices
func (m *Mesh[N, I]) NumVrts() int {
	return len(m.Coords) / 3
}

// NumTris returns the number of triangles
func (m *Mesh[N, I]) NumTris() int {
	return len(m.Tris) / 3
}

// NumSolids returns the number of solids
func (m *Mesh[N, I]) NumSolids() int {
	if len(m.SolidRanges) == 0 {
		return 0
	}
	return len(m.SolidRanges) - 1
}

// VrtCoords returns the coordinates of vertex v
func (m *Mesh[N, I]) VrtCoords(v int) [3]N {
	return [3]N{m.Coords[3*v], m.Coords[3*v+1], m.Coords[3*v+2]}
}

// TriCorner returns the vertex index of corner c (0..2) of triangle t
func (m *Mesh[N, I]) TriCorner(t, c int) I {
	return m.Tris[3*t+c]
}

// TriIndices returns the three vertex indices of triangle t
func (m *Mesh[N, I]) TriIndices(t int) [3]I {
	return [3]I{m.Tris[3*t], m.Tris[3*t+1], m.Tris[3*t+2]}
}

// TriCornerCoords returns the coordinates of corner c of triangle t
func (m *Mesh[N, I]) TriCornerCoords(t, c int) [3]N {
	return m.VrtCoords(int(m.TriCorner(t, c)))
}

// TriNormal returns the normal stored for triangle t
func (m *Mesh[N, I]) TriNormal(t int) [3]N {
	return [3]N{m.Normals[3*t], m.Normals[3*t+1], m.Normals[3*t+2]}
}

// SolidTrisBegin returns the first triangle of solid s
func (m *Mesh[N, I]) SolidTrisBegin(s int) I {
	return m.SolidRanges[s]
}

// SolidTrisEnd returns one past the last triangle of solid s
func (m *Mesh[N, I]) SolidTrisEnd(s int) I {
	return m.SolidRanges[s+1]
}

// SolidName returns the name of solid s, or "" if it has none
func (m *Mesh[N, I]) SolidName(s int) string {
	if s < len(m.Names) {
		return m.Names[s]
	}
	return ""
}

// Vertex returns vertex v in float64 precision
func (m *Mesh[N, I]) Vertex(v int) geometry.Vector3 {
	return geometry.FromArray(m.VrtCoords(v))
}

// Triangle returns triangle t with its stored normal
func (m *Mesh[N, I]) Triangle(t int) geometry.Triangle {
	return geometry.NewTriangle(
		geometry.FromArray(m.TriNormal(t)),
		geometry.FromArray(m.TriCornerCoords(t, 0)),
		geometry.FromArray(m.TriCornerCoords(t, 1)),
		geometry.FromArray(m.TriCornerCoords(t, 2)),
	)
}

// BoundingBox calculates the bounding box of all vertices
func (m *Mesh[N, I]) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for v := 0; v < m.NumVrts(); v++ {
		bbox.Extend(m.Vertex(v))
	}
	return bbox
}

// SurfaceArea calculates the total surface area of the mesh
func (m *Mesh[N, I]) SurfaceArea() float64 {
	totalArea := 0.0
	for t := 0; t < m.NumTris(); t++ {
		totalArea += m.Triangle(t).Area()
	}
	return totalArea
}
