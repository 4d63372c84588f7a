package stl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxLineLength bounds a single line of a text file
const maxLineLength = 16 * 1024 * 1024

// DecodeText parses a text stl stream and welds its coordinates. name is
// only used in error messages.
func DecodeText[N Number, I Index](r io.Reader, name string) (*Mesh[N, I], error) {
	raw, err := decodeText[N, I](r, name)
	if err != nil {
		return nil, err
	}
	return raw.weld(), nil
}

func decodeText[N Number, I Index](r io.Reader, name string) (*rawMesh[N, I], error) {
	raw := newRawMesh[N, I](0)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	lineNo := 0
	faceVrts := 0
	facetOpen := false

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			raw.startSolid(strings.Join(fields[1:], " "))

		case "facet":
			if len(fields) < 5 {
				return nil, &LineError{File: name, Line: lineNo, Msg: "triangle not specified correctly"}
			}
			if fields[1] != "normal" {
				return nil, &LineError{File: name, Line: lineNo, Msg: "missing normal specifier"}
			}
			if facetOpen {
				// the previous facet was never closed and yields no triangle
				raw.normals = raw.normals[:len(raw.normals)-3]
				raw.coords = raw.coords[:len(raw.coords)-faceVrts]
			}
			for _, f := range fields[2:5] {
				raw.normals = append(raw.normals, N(parseNumber(f)))
			}
			faceVrts = 0
			facetOpen = true

		case "outer":
			if len(fields) < 2 || fields[1] != "loop" {
				return nil, &LineError{File: name, Line: lineNo, Msg: "expecting outer loop"}
			}

		case "vertex":
			if len(fields) < 4 {
				return nil, &LineError{File: name, Line: lineNo, Msg: "vertex not specified correctly"}
			}
			if !raw.addCorner(N(parseNumber(fields[1])), N(parseNumber(fields[2])), N(parseNumber(fields[3]))) {
				return nil, overflowError[I](name)
			}
			faceVrts++

		case "endfacet":
			// A facet closes exactly once, so every triangle owns exactly one normal.
			if !facetOpen || faceVrts != 3 {
				return nil, &LineError{File: name, Line: lineNo, Msg: "bad number of vertices specified for face"}
			}
			raw.closeTriangle()
			facetOpen = false
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading text stl %s after line %d: %w", name, lineNo, err)
	}

	raw.finishSolids()
	return raw, nil
}

// parseNumber converts the longest numeric prefix of s. Text that does not
// start with a number yields 0. Out of range values saturate.
func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(numericPrefix(s), 64)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		return v
	}
	return 0
}

// numericPrefix returns the longest prefix of s that ParseFloat accepts as a
// decimal number, infinity or nan. It reads every byte at most once.
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	rest := strings.ToLower(s[i:min(len(s), i+len("infinity"))])
	switch {
	case strings.HasPrefix(rest, "infinity"):
		return s[:i+len("infinity")]
	case strings.HasPrefix(rest, "inf"):
		return s[:i+len("inf")]
	case i == 0 && strings.HasPrefix(rest, "nan"):
		return s[:len("nan")]
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return ""
	}

	// an exponent only counts when at least one digit follows it
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return s[:i]
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}
