package stl

// rawMesh collects the unwelded streams of one decoding pass
type rawMesh[N Number, I Index] struct {
	coords  []IndexedCoord[N, I]
	normals []N
	tris    []I
	solids  []I
	names   []string

	// maxCorners is the number of corners I can address, 0 when that
	// exceeds uint64
	maxCorners uint64
}

// newRawMesh preallocates room for capacity triangles
func newRawMesh[N Number, I Index](capacity int) *rawMesh[N, I] {
	return &rawMesh[N, I]{
		coords:     make([]IndexedCoord[N, I], 0, 3*capacity),
		normals:    make([]N, 0, 3*capacity),
		tris:       make([]I, 0, 3*capacity),
		maxCorners: maxIndex[I]() + 1,
	}
}

func (raw *rawMesh[N, I]) numTris() int {
	return len(raw.tris) / 3
}

// startSolid marks the current triangle count as the first triangle of a new solid
func (raw *rawMesh[N, I]) startSolid(name string) {
	raw.solids = append(raw.solids, I(raw.numTris()))
	raw.names = append(raw.names, name)
}

// addCorner appends a corner tagged with its position. It reports false
// when the position does not fit into I.
func (raw *rawMesh[N, I]) addCorner(x, y, z N) bool {
	n := uint64(len(raw.coords))
	if raw.maxCorners != 0 && n >= raw.maxCorners {
		return false
	}
	raw.coords = append(raw.coords, IndexedCoord[N, I]{X: x, Y: y, Z: z, Index: I(n)})
	return true
}

// closeTriangle turns the three most recent corners into a triangle
func (raw *rawMesh[N, I]) closeTriangle() {
	n := I(len(raw.coords))
	raw.tris = append(raw.tris, n-3, n-2, n-1)
}

// finishSolids closes the last solid. Triangles that precede the first
// solid keyword form an unnamed leading solid, so the ranges always start at 0.
func (raw *rawMesh[N, I]) finishSolids() {
	raw.solids = append(raw.solids, I(raw.numTris()))
	if raw.solids[0] != 0 {
		raw.solids = append([]I{0}, raw.solids...)
		raw.names = append([]string{""}, raw.names...)
	}
}

func (raw *rawMesh[N, I]) weld() *Mesh[N, I] {
	coords, tris, normals, solids := RemoveDoubles(raw.coords, raw.tris, raw.normals, raw.solids)
	return &Mesh[N, I]{
		Coords:      coords,
		Normals:     normals,
		Tris:        tris,
		SolidRanges: solids,
		Names:       raw.names,
	}
}
