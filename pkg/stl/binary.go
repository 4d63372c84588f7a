package stl

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

const (
	binaryHeaderSize = 80
	triangleSize     = 50

	// maxPrealloc caps buffer preallocation driven by an untrusted count
	maxPrealloc = 1 << 20
)

// DecodeBinary parses a little-endian binary stl stream and welds its
// coordinates. name is only used in error messages.
func DecodeBinary[N Number, I Index](r io.Reader, name string) (*Mesh[N, I], error) {
	raw, err := decodeBinary[N, I](r, name)
	if err != nil {
		return nil, err
	}
	return raw.weld(), nil
}

func decodeBinary[N Number, I Index](r io.Reader, name string) (*rawMesh[N, I], error) {
	reader := bufio.NewReader(r)

	var header [binaryHeaderSize]byte
	if _, err := io.ReadFull(reader, header[:]); err != nil {
		return nil, readError(name, "error while parsing binary stl header", err)
	}

	var count [4]byte
	if _, err := io.ReadFull(reader, count[:]); err != nil {
		return nil, readError(name, "could not determine number of triangles", err)
	}
	numTris := binary.LittleEndian.Uint32(count[:])

	capacity := min(int(numTris), maxPrealloc)
	raw := newRawMesh[N, I](capacity)
	raw.startSolid(strings.TrimRight(string(header[:]), "\x00 "))

	var buf [triangleSize]byte
	for i := uint32(0); i < numTris; i++ {
		if _, err := io.ReadFull(reader, buf[:]); err != nil {
			return nil, readError(name, fmt.Sprintf("error while parsing triangle %d/%d", i+1, numTris), err)
		}

		raw.normals = append(raw.normals, N(float32At(buf[:], 0)), N(float32At(buf[:], 1)), N(float32At(buf[:], 2)))
		for corner := 1; corner <= 3; corner++ {
			ok := raw.addCorner(
				N(float32At(buf[:], 3*corner)),
				N(float32At(buf[:], 3*corner+1)),
				N(float32At(buf[:], 3*corner+2)),
			)
			if !ok {
				return nil, overflowError[I](name)
			}
		}
		raw.closeTriangle()
		// buf[48:50] holds the attribute byte count, which is ignored
	}

	raw.finishSolids()
	return raw, nil
}

// float32At decodes the i-th little-endian float32 of a triangle record
func float32At(b []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
}

func readError(name, what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return truncatedError(name, what, err)
	}
	return fmt.Errorf("%s in file %s: %w", what, name, err)
}
