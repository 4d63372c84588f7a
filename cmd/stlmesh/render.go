package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/stlmesh/pkg/stl"
	"github.com/philipparndt/stlmesh/pkg/viewer"
	"github.com/spf13/cobra"
)

type renderOptions struct {
	output      string
	width       int
	height      int
	supersample int
	pitch       float64
	yaw         float64
	zoom        float64
	noLabel     bool
	noOpenEdges bool
}

func newRenderCmd(c *cli) *cobra.Command {
	opts := &renderOptions{}
	defaults := viewer.DefaultOptions()

	renderCmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a preview image of a mesh",
		Long: `Render a shaded preview of the welded mesh as PNG or WebP. Every solid
gets its own color and edges used by a single triangle are marked red.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := opts.output
			if output == "" {
				output = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])) + ".png"
			}
			format, err := viewer.FormatFromPath(output)
			if err != nil {
				return err
			}

			vopts := viewer.DefaultOptions()
			vopts.Width = opts.width
			vopts.Height = opts.height
			vopts.Supersample = opts.supersample
			vopts.Pitch = opts.pitch * math.Pi / 180
			vopts.Yaw = opts.yaw * math.Pi / 180
			vopts.Zoom = opts.zoom
			vopts.OpenEdges = !opts.noOpenEdges

			return c.withMesh(cmd.Context(), args[0],
				func(mesh *stl.Mesh[float32, uint32]) error {
					return renderPreview(c, mesh, vopts, !opts.noLabel, args[0], output, format)
				},
				func(mesh *stl.Mesh[float64, uint32]) error {
					return renderPreview(c, mesh, vopts, !opts.noLabel, args[0], output, format)
				})
		},
	}

	renderCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output image, .png or .webp (default <file>.png)")
	renderCmd.Flags().IntVar(&opts.width, "width", defaults.Width, "Image width in pixels")
	renderCmd.Flags().IntVar(&opts.height, "height", defaults.Height, "Image height in pixels")
	renderCmd.Flags().IntVar(&opts.supersample, "supersample", defaults.Supersample, "Render at this multiple of the size and scale down")
	renderCmd.Flags().Float64Var(&opts.pitch, "pitch", 25, "Camera elevation in degrees")
	renderCmd.Flags().Float64Var(&opts.yaw, "yaw", 30, "Camera rotation around the Z axis in degrees")
	renderCmd.Flags().Float64Var(&opts.zoom, "zoom", defaults.Zoom, "Magnification, values above 1 move the camera closer")
	renderCmd.Flags().BoolVar(&opts.noLabel, "no-label", false, "Do not print file name and counts into the image")
	renderCmd.Flags().BoolVar(&opts.noOpenEdges, "no-open-edges", false, "Do not mark edges used by a single triangle")

	return renderCmd
}

func renderPreview[N stl.Number](c *cli, mesh *stl.Mesh[N, uint32], opts viewer.Options, label bool, source, output, format string) error {
	if label {
		opts.Label = []string{
			filepath.Base(source),
			fmt.Sprintf("%d vertices, %d triangles, %d solids", mesh.NumVrts(), mesh.NumTris(), mesh.NumSolids()),
		}
	}

	img, err := viewer.Render(mesh, opts)
	if err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	if err := viewer.Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	c.logger.Info("preview written", "file", output, "format", format, "width", opts.Width, "height", opts.Height)
	return nil
}
