// Package stltest builds stl fixtures for tests.
package stltest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// Facet is one triangle record
type Facet struct {
	Normal  [3]float32
	Corners [3][3]float32
}

// Solid is a named group of facets in a text file
type Solid struct {
	Name   string
	Facets []Facet
}

// Cube returns the 12 outward wound facets of a unit cube whose minimum
// corner sits at origin.
func Cube(origin [3]float32) []Facet {
	p := func(x, y, z float32) [3]float32 {
		return [3]float32{origin[0] + x, origin[1] + y, origin[2] + z}
	}
	face := func(n [3]float32, a, b, c, d [3]float32) []Facet {
		return []Facet{
			{Normal: n, Corners: [3][3]float32{a, b, c}},
			{Normal: n, Corners: [3][3]float32{a, c, d}},
		}
	}

	var facets []Facet
	facets = append(facets, face([3]float32{0, 0, -1}, p(0, 0, 0), p(0, 1, 0), p(1, 1, 0), p(1, 0, 0))...)
	facets = append(facets, face([3]float32{0, 0, 1}, p(0, 0, 1), p(1, 0, 1), p(1, 1, 1), p(0, 1, 1))...)
	facets = append(facets, face([3]float32{0, -1, 0}, p(0, 0, 0), p(1, 0, 0), p(1, 0, 1), p(0, 0, 1))...)
	facets = append(facets, face([3]float32{0, 1, 0}, p(0, 1, 0), p(0, 1, 1), p(1, 1, 1), p(1, 1, 0))...)
	facets = append(facets, face([3]float32{-1, 0, 0}, p(0, 0, 0), p(0, 0, 1), p(0, 1, 1), p(0, 1, 0))...)
	facets = append(facets, face([3]float32{1, 0, 0}, p(1, 0, 0), p(1, 1, 0), p(1, 1, 1), p(1, 0, 1))...)
	return facets
}

// Text renders solids in the text format. Numbers are written with the
// shortest representation that round-trips through float32.
func Text(solids ...Solid) string {
	var sb strings.Builder
	for _, solid := range solids {
		fmt.Fprintf(&sb, "solid %s\n", solid.Name)
		for _, f := range solid.Facets {
			fmt.Fprintf(&sb, "  facet normal %s\n", triple(f.Normal))
			sb.WriteString("    outer loop\n")
			for _, c := range f.Corners {
				fmt.Fprintf(&sb, "      vertex %s\n", triple(c))
			}
			sb.WriteString("    endloop\n")
			sb.WriteString("  endfacet\n")
		}
		fmt.Fprintf(&sb, "endsolid %s\n", solid.Name)
	}
	return sb.String()
}

func triple(v [3]float32) string {
	return strings.Join([]string{
		strconv.FormatFloat(float64(v[0]), 'g', -1, 32),
		strconv.FormatFloat(float64(v[1]), 'g', -1, 32),
		strconv.FormatFloat(float64(v[2]), 'g', -1, 32),
	}, " ")
}

// Binary renders facets in the little-endian binary format
func Binary(header string, facets []Facet) []byte {
	var buf bytes.Buffer

	var h [80]byte
	copy(h[:], header)
	buf.Write(h[:])

	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(len(facets)))
	buf.Write(b[:])

	for _, f := range facets {
		for _, v := range append([][3]float32{f.Normal}, f.Corners[:]...) {
			for _, c := range v {
				binary.LittleEndian.PutUint32(b[:], math.Float32bits(c))
				buf.Write(b[:])
			}
		}
		buf.Write([]byte{0, 0})
	}
	return buf.Bytes()
}

// WriteFile stores data in a fresh temporary directory and returns its path
func WriteFile(tb testing.TB, name string, data []byte) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}
