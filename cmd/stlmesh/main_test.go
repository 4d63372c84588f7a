package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/philipparndt/stlmesh/internal/config"
	"github.com/philipparndt/stlmesh/internal/logging"
	"github.com/philipparndt/stlmesh/internal/stltest"
	"github.com/philipparndt/stlmesh/pkg/stl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// execute runs the command line in a clean working directory
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func twoCubes() []stltest.Solid {
	return []stltest.Solid{
		{Name: "first", Facets: stltest.Cube([3]float32{0, 0, 0})},
		{Name: "second", Facets: stltest.Cube([3]float32{2, 0, 0})},
	}
}

func writeTwoCubes(t *testing.T) string {
	t.Helper()
	return stltest.WriteFile(t, "cubes.stl", []byte(stltest.Text(twoCubes()...)))
}

func TestInfo(t *testing.T) {
	path := writeTwoCubes(t)

	out, err := execute(t, "info", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Vertices: 16")
	assert.Contains(t, out, "Triangles: 24")
	assert.Contains(t, out, "Solids: 2")
	assert.Contains(t, out, "Edges: 36")
	assert.Contains(t, out, "Closed: true")
	assert.Contains(t, out, "Width (X): 3.000000 units")
	assert.Contains(t, out, "Volume: 2.000000 cubic units")
}

func TestInfoBinaryFloat64(t *testing.T) {
	path := stltest.WriteFile(t, "cube.stl", stltest.Binary("exported", stltest.Cube([3]float32{0, 0, 0})))

	out, err := execute(t, "--precision", "float64", "info", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Vertices: 8")
	assert.Contains(t, out, "Triangles: 12")
	assert.Contains(t, out, "Solids: 1")
}

func TestInfoEmptyMesh(t *testing.T) {
	path := stltest.WriteFile(t, "empty.stl", []byte("solid empty\nendsolid empty\n"))

	out, err := execute(t, "info", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Triangles: 0")
	assert.Contains(t, out, "The mesh contains no vertices.")
}

func TestSolids(t *testing.T) {
	path := writeTwoCubes(t)

	out, err := execute(t, "solids", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Solids: 2")
	assert.Regexp(t, `0\s+first\s+0\s+12\s+12`, out)
	assert.Regexp(t, `1\s+second\s+12\s+24\s+12`, out)
}

func TestEdges(t *testing.T) {
	path := writeTwoCubes(t)

	out, err := execute(t, "edges", "--longest", "-n", "3", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Top 3 Longest Edges")
	assert.Contains(t, out, "Total edges in mesh: 36")
	assert.Contains(t, out, "1.414214")

	out, err = execute(t, "edges", "--min", "1.2", "--max", "2", path)
	require.NoError(t, err)
	assert.Contains(t, out, "(found 12)")
}

func TestEdgesCountFromConfig(t *testing.T) {
	path := writeTwoCubes(t)
	cfgPath := filepath.Join(t.TempDir(), "stlmesh.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("edge_count = 4\n"), 0o644))

	out, err := execute(t, "--config", cfgPath, "edges", path)
	require.NoError(t, err)
	assert.Contains(t, out, "All Edges (showing first 4 of 36)")
}

func TestEdgesRejectsNegativeCount(t *testing.T) {
	_, err := execute(t, "edges", "-n", "-1", writeTwoCubes(t))
	assert.Error(t, err)
}

func TestTriangles(t *testing.T) {
	path := writeTwoCubes(t)

	out, err := execute(t, "triangles", "--largest", "-n", "2", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Total triangles: 24")
	assert.Contains(t, out, "Total surface area: 12.000000 square units")
	assert.Contains(t, out, "Triangle #0 (solid 0):")
	assert.Contains(t, out, "Triangle #1 (solid 0):")
	assert.NotContains(t, out, "Triangle #2 ")
}

func TestMeasure(t *testing.T) {
	path := writeTwoCubes(t)

	out, err := execute(t, "measure", path,
		"--x1", "-1", "--y1", "0", "--z1", "0",
		"--x2", "3", "--y2", "1", "--z2", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "(distance: 1.000000)")
	assert.Contains(t, out, "(distance: 0.000000)")
	assert.Contains(t, out, "Direct distance: 4.242641 units")
	assert.Contains(t, out, "Distance between nearest vertices: 3.316625 units")
}

func TestDumpJSON(t *testing.T) {
	path := writeTwoCubes(t)

	out, err := execute(t, "--precision", "float64", "dump", path)
	require.NoError(t, err)

	var dump meshDump[float64]
	require.NoError(t, json.Unmarshal([]byte(out), &dump))

	assert.Equal(t, path, dump.Source)
	assert.Len(t, dump.Coords, 16*3)
	assert.Len(t, dump.Normals, 24*3)
	assert.Len(t, dump.Tris, 24*3)
	assert.Equal(t, []uint32{0, 12, 24}, dump.SolidRanges)
	assert.Equal(t, []string{"first", "second"}, dump.Names)
}

func TestDumpYAMLToFile(t *testing.T) {
	path := writeTwoCubes(t)
	output := filepath.Join(t.TempDir(), "cubes.yaml")

	out, err := execute(t, "dump", "--format", "yaml", "-o", output, path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var dump meshDump[float32]
	require.NoError(t, yaml.Unmarshal(data, &dump))
	assert.Len(t, dump.Coords, 16*3)
	assert.Equal(t, []uint32{0, 12, 24}, dump.SolidRanges)
}

func TestDumpFormatFromDefaultConfigFile(t *testing.T) {
	path := writeTwoCubes(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFile), []byte("dump_format = \"yaml\"\n"), 0o644))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"dump", path})

	t.Chdir(dir)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "solid_ranges: [0, 12, 24]")
}

func TestDumpNonFiniteCoordinates(t *testing.T) {
	text := "solid odd\nfacet normal 0 0 1\nouter loop\nvertex 1e999 nan 0\nvertex 0 0 0\nvertex 0 1 0\nendloop\nendfacet\nendsolid odd\n"
	path := stltest.WriteFile(t, "odd.stl", []byte(text))

	_, err := execute(t, "dump", "--format", "json", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--format yaml")

	out, err := execute(t, "dump", "--format", "yaml", path)
	require.NoError(t, err)
	assert.Contains(t, out, ".inf")
	assert.Contains(t, out, ".nan")
}

func TestDumpRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "dump", "--format", "xml", writeTwoCubes(t))
	assert.Error(t, err)
}

func TestMissingFile(t *testing.T) {
	_, err := execute(t, "info", filepath.Join(t.TempDir(), "missing.stl"))
	assert.ErrorIs(t, err, stl.ErrFileOpen)
}

func TestMalformedFile(t *testing.T) {
	path := stltest.WriteFile(t, "broken.stl", []byte("solid broken\nfacet normal 0 0\n"))

	_, err := execute(t, "solids", path)

	var lineErr *stl.LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 2, lineErr.Line)
}

func TestInvalidPrecision(t *testing.T) {
	_, err := execute(t, "--precision", "float16", "info", writeTwoCubes(t))
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "stlmesh dev\n", out)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchReloadsOnChange(t *testing.T) {
	cube := stltest.Solid{Name: "cube", Facets: stltest.Cube([3]float32{0, 0, 0})}
	path := stltest.WriteFile(t, "watched.stl", []byte(stltest.Text(cube)))

	cfg := config.Default()
	cfg.WatchDebounce = "20ms"
	c := &cli{cfg: cfg, logger: slog.New(slog.DiscardHandler)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- c.watch(ctx, &out, path)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "12 triangles")
	}, 5*time.Second, 20*time.Millisecond)

	updated := []byte(stltest.Text(twoCubes()...))
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, updated, 0o644)
		return strings.Contains(out.String(), "24 triangles")
	}, 5*time.Second, 200*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchFollowsScadDependencies(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "part.scad")
	first := filepath.Join(dir, "first.scad")
	second := filepath.Join(dir, "second.scad")
	require.NoError(t, os.WriteFile(first, []byte("module a() { cube(1); }\n"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("module b() { cube(2); }\n"), 0o644))
	require.NoError(t, os.WriteFile(source, []byte("use <first.scad>\na();\n"), 0o644))

	cfg := config.Default()
	cfg.WatchDebounce = "20ms"
	var logs syncBuffer
	c := &cli{cfg: cfg, logger: logging.New(&logs, slog.LevelInfo)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- c.watch(ctx, io.Discard, source)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "watching for changes")
	}, 5*time.Second, 20*time.Millisecond)

	updated := []byte("use <second.scad>\nb();\n")
	require.Eventually(t, func() bool {
		_ = os.WriteFile(source, updated, 0o644)
		return strings.Contains(logs.String(), "dependencies changed")
	}, 5*time.Second, 200*time.Millisecond)

	// the newly used file now triggers reloads on its own
	require.Eventually(t, func() bool {
		_ = os.WriteFile(second, []byte("module b() { cube(3); }\n"), 0o644)
		return strings.Contains(logs.String(), "changed="+second)
	}, 5*time.Second, 200*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestRender(t *testing.T) {
	path := writeTwoCubes(t)
	output := filepath.Join(t.TempDir(), "cubes.png")

	_, err := execute(t, "render", path, "-o", output, "--width", "120", "--height", "80")
	require.NoError(t, err)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())
}

func TestRenderZoom(t *testing.T) {
	path := writeTwoCubes(t)
	output := filepath.Join(t.TempDir(), "cubes.webp")

	_, err := execute(t, "render", path, "-o", output, "--width", "60", "--height", "40", "--zoom", "3")
	require.NoError(t, err)
	assert.FileExists(t, output)

	_, err = execute(t, "render", path, "-o", output, "--zoom", "-1")
	assert.Error(t, err)
}

func TestRenderRejectsUnknownImageFormat(t *testing.T) {
	_, err := execute(t, "render", writeTwoCubes(t), "-o", "cubes.bmp")
	assert.Error(t, err)
}
