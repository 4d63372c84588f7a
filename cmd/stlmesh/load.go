package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/philipparndt/stlmesh/internal/config"
	"github.com/philipparndt/stlmesh/pkg/analysis"
	"github.com/philipparndt/stlmesh/pkg/openscad"
	"github.com/philipparndt/stlmesh/pkg/stl"
)

// loadMesh ingests path. OpenSCAD sources are rendered to a temporary stl
// file which is removed once it has been read.
func (c *cli) loadMesh(ctx context.Context, path string, load func(string) error) error {
	input := path
	if openscad.IsSource(path) {
		c.logger.Info("rendering OpenSCAD source", "file", path)

		out, err := openscad.NewRenderer(filepath.Dir(path)).RenderTemp(ctx, filepath.Base(path))
		if err != nil {
			return err
		}
		defer os.Remove(out)
		input = out
	}

	start := time.Now()
	if err := load(input); err != nil {
		return err
	}
	c.logger.Info("mesh loaded", "file", path, "precision", c.cfg.Precision, "elapsed", time.Since(start))
	return nil
}

// withMesh loads path with the configured precision and passes the mesh to
// the matching handler.
func (c *cli) withMesh(
	ctx context.Context,
	path string,
	f32 func(*stl.Mesh[float32, uint32]) error,
	f64 func(*stl.Mesh[float64, uint32]) error,
) error {
	if c.cfg.Precision == config.Float64 {
		var mesh *stl.Mesh[float64, uint32]
		err := c.loadMesh(ctx, path, func(input string) (err error) {
			mesh, err = stl.ReadFile[float64, uint32](input)
			return err
		})
		if err != nil {
			return err
		}
		logCounts(c, path, mesh)
		return f64(mesh)
	}

	var mesh *stl.Mesh[float32, uint32]
	err := c.loadMesh(ctx, path, func(input string) (err error) {
		mesh, err = stl.ReadFile[float32, uint32](input)
		return err
	})
	if err != nil {
		return err
	}
	logCounts(c, path, mesh)
	return f32(mesh)
}

// analyze loads path and measures the welded mesh
func (c *cli) analyze(ctx context.Context, path string) (*analysis.MeasurementResult, error) {
	var result *analysis.MeasurementResult
	err := c.withMesh(ctx, path,
		func(mesh *stl.Mesh[float32, uint32]) error {
			result = analysis.AnalyzeMesh(mesh)
			return nil
		},
		func(mesh *stl.Mesh[float64, uint32]) error {
			result = analysis.AnalyzeMesh(mesh)
			return nil
		})
	return result, err
}

func logCounts[N stl.Number](c *cli, path string, mesh *stl.Mesh[N, uint32]) {
	c.logger.Debug("mesh buffers",
		"file", path,
		"vertices", mesh.NumVrts(),
		"triangles", mesh.NumTris(),
		"solids", mesh.NumSolids())
}
