package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/philipparndt/stlmesh/internal/config"
	"github.com/philipparndt/stlmesh/pkg/stl"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type dumpOptions struct {
	format string
	output string
}

// meshDump is the serialized form of the four mesh buffers
type meshDump[N stl.Number] struct {
	Source      string   `json:"source" yaml:"source"`
	Coords      []N      `json:"coords" yaml:"coords,flow"`
	Normals     []N      `json:"normals" yaml:"normals,flow"`
	Tris        []uint32 `json:"tris" yaml:"tris,flow"`
	SolidRanges []uint32 `json:"solid_ranges" yaml:"solid_ranges,flow"`
	Names       []string `json:"names" yaml:"names"`
}

func newDumpCmd(c *cli) *cobra.Command {
	opts := &dumpOptions{}

	dumpCmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Write the welded mesh buffers",
		Long: `Write coordinates, normals, triangle indices and solid ranges of the welded mesh as JSON or YAML.
JSON has no representation for infinite or NaN coordinates, use YAML for such meshes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := c.cfg.DumpFormat
			if opts.format != "" {
				format = opts.format
			}
			if format != config.FormatJSON && format != config.FormatYAML {
				return fmt.Errorf("unsupported dump format %q (expected %s or %s)", format, config.FormatJSON, config.FormatYAML)
			}

			dump := func(w io.Writer) error {
				return c.withMesh(cmd.Context(), args[0],
					func(mesh *stl.Mesh[float32, uint32]) error { return writeDump(w, format, args[0], mesh) },
					func(mesh *stl.Mesh[float64, uint32]) error { return writeDump(w, format, args[0], mesh) })
			}

			if opts.output == "" {
				return dump(cmd.OutOrStdout())
			}

			f, err := os.Create(opts.output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", opts.output, err)
			}
			if err := dump(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", opts.output, err)
			}

			c.logger.Info("mesh written", "file", opts.output, "format", format)
			return nil
		},
	}

	dumpCmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: json or yaml (default from config)")
	dumpCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write to a file instead of stdout")

	return dumpCmd
}

func writeDump[N stl.Number](w io.Writer, format, source string, mesh *stl.Mesh[N, uint32]) error {
	dump := meshDump[N]{
		Source:      source,
		Coords:      mesh.Coords,
		Normals:     mesh.Normals,
		Tris:        mesh.Tris,
		SolidRanges: mesh.SolidRanges,
		Names:       mesh.Names,
	}

	if format == config.FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(dump); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dump); err != nil {
		var unsupported *json.UnsupportedValueError
		if errors.As(err, &unsupported) {
			return fmt.Errorf("failed to encode json: %w (use --format %s for meshes with inf or nan coordinates)", err, config.FormatYAML)
		}
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}
