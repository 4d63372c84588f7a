package stl

import "slices"

// RemoveDoubles welds corners with identical coordinates into shared
// vertices.
//
// coords holds every raw corner, tagged with its position in the raw corner
// stream; tris references those positions (stride 3). normals holds one
// triple per triangle. solidRanges holds triangle-count boundaries in the
// raw triangle numbering.
//
// The returned coordinate buffer is sorted lexicographically and free of
// duplicates. Triangles that collapse onto fewer than three distinct
// vertices are dropped together with their normals, in file order. Each
// solid boundary b becomes the number of surviving triangles below b, so a
// solid whose triangles all vanish stays in the list with zero width.
//
// coords is sorted in place.
func RemoveDoubles[N Number, I Index](coords []IndexedCoord[N, I], tris []I, normals []N, solidRanges []I) (uniqueCoords []N, outTris []I, outNormals []N, outRanges []I) {
	slices.SortFunc(coords, IndexedCoord[N, I].Compare)

	numUnique := 0
	for i := range coords {
		if i == 0 || !coords[i].Equal(coords[i-1]) {
			numUnique++
		}
	}

	// newIndex maps a raw corner position to its unique vertex
	newIndex := make([]I, len(coords))
	uniqueCoords = make([]N, 0, 3*numUnique)
	cur := -1
	for i, c := range coords {
		if i == 0 || !c.Equal(coords[i-1]) {
			cur++
			uniqueCoords = append(uniqueCoords, c.X, c.Y, c.Z)
		}
		newIndex[c.Index] = I(cur)
	}

	numTris := len(tris) / 3
	outTris = make([]I, 0, len(tris))
	outNormals = make([]N, 0, len(normals))

	// kept[t] counts the surviving triangles among the first t raw triangles
	kept := make([]I, numTris+1)
	for t := 0; t < numTris; t++ {
		a, b, c := newIndex[tris[3*t]], newIndex[tris[3*t+1]], newIndex[tris[3*t+2]]
		kept[t+1] = kept[t]
		if a == b || a == c || b == c {
			continue
		}
		outTris = append(outTris, a, b, c)
		outNormals = append(outNormals, normals[3*t:3*t+3]...)
		kept[t+1]++
	}

	outRanges = make([]I, len(solidRanges))
	for i, boundary := range solidRanges {
		outRanges[i] = kept[boundary]
	}

	return uniqueCoords, outTris, outNormals, outRanges
}
