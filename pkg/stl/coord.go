package stl

import (
	"cmp"

	"golang.org/x/exp/constraints"
)

// Number is the element type of coordinate and normal buffers
type Number interface {
	constraints.Float
}

// Index is the element type of triangle and solid range buffers
type Index interface {
	constraints.Integer
}

// maxIndex returns the largest value of I
func maxIndex[I Index]() uint64 {
	m := I(1)
	for next := m<<1 | 1; next > m; next = m<<1 | 1 {
		m = next
	}
	return uint64(m)
}

// IndexedCoord is a raw triangle corner tagged with its position in the
// unwelded corner stream.
type IndexedCoord[N Number, I Index] struct {
	X, Y, Z N
	Index   I
}

// Compare orders coordinates lexicographically on (X, Y, Z). The index tag
// does not take part in the ordering.
func (c IndexedCoord[N, I]) Compare(o IndexedCoord[N, I]) int {
	if r := cmp.Compare(c.X, o.X); r != 0 {
		return r
	}
	if r := cmp.Compare(c.Y, o.Y); r != 0 {
		return r
	}
	return cmp.Compare(c.Z, o.Z)
}

// Equal reports whether both coordinates have identical components
func (c IndexedCoord[N, I]) Equal(o IndexedCoord[N, I]) bool {
	return c.X == o.X && c.Y == o.Y && c.Z == o.Z
}
