package stl

import (
	"fmt"
	"io"
	"os"
)

// Result holds the outcome of one ingestion. Callers choose how failures
// surface: Unwrap returns them as an error, Must panics with them.
type Result[N Number, I Index] struct {
	mesh *Mesh[N, I]
	err  error
}

// OK reports whether the ingestion succeeded
func (r Result[N, I]) OK() bool {
	return r.err == nil
}

// Err returns the ingestion error, if any
func (r Result[N, I]) Err() error {
	return r.err
}

// Unwrap returns the mesh, or nil and the ingestion error
func (r Result[N, I]) Unwrap() (*Mesh[N, I], error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.mesh, nil
}

// Must returns the mesh and panics if the ingestion failed
func (r Result[N, I]) Must() *Mesh[N, I] {
	if r.err != nil {
		panic(r.err)
	}
	return r.mesh
}

// Load reads a text or binary stl file. The format is chosen by
// HasTextFormat.
func Load[N Number, I Index](path string) Result[N, I] {
	file, err := os.Open(path)
	if err != nil {
		return Result[N, I]{err: openError(path, err)}
	}
	defer file.Close()

	mesh, err := Decode[N, I](file, path)
	return Result[N, I]{mesh: mesh, err: err}
}

// ReadFile reads a text or binary stl file
func ReadFile[N Number, I Index](path string) (*Mesh[N, I], error) {
	return Load[N, I](path).Unwrap()
}

// MustReadFile is like ReadFile but panics on failure
func MustReadFile[N Number, I Index](path string) *Mesh[N, I] {
	return Load[N, I](path).Must()
}

// ReadTextFile reads a text stl file without format detection
func ReadTextFile[N Number, I Index](path string) (*Mesh[N, I], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer file.Close()
	return DecodeText[N, I](file, path)
}

// ReadBinaryFile reads a binary stl file without format detection
func ReadBinaryFile[N Number, I Index](path string) (*Mesh[N, I], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer file.Close()
	return DecodeBinary[N, I](file, path)
}

// Decode detects the format of r and decodes it. r is rewound after the
// format check.
func Decode[N Number, I Index](r io.ReadSeeker, name string) (*Mesh[N, I], error) {
	isText, err := hasTextFormat(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to reset file pointer of %s: %w", name, err)
	}

	if isText {
		return DecodeText[N, I](r, name)
	}
	return DecodeBinary[N, I](r, name)
}
