package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"sync"
	"syscall"

	"github.com/philipparndt/stlmesh/pkg/analysis"
	"github.com/philipparndt/stlmesh/pkg/openscad"
	"github.com/philipparndt/stlmesh/pkg/watcher"
	"github.com/spf13/cobra"
)

func newWatchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [file]",
		Short: "Reload a mesh whenever it changes",
		Long: `Load the file, print a summary and reload it after every change until
interrupted. For OpenSCAD sources all used and included files are watched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.watch(ctx, cmd.OutOrStdout(), args[0])
		},
	}
}

// watch reloads path on every change until ctx is done
func (c *cli) watch(ctx context.Context, w io.Writer, path string) error {
	debounce, err := c.cfg.Debounce()
	if err != nil {
		return err
	}

	files, err := watchedFiles(path)
	if err != nil {
		return err
	}

	fw, err := watcher.NewFileWatcher(debounce, c.logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	var mu sync.Mutex
	var reload func(changed string)
	reload = func(changed string) {
		mu.Lock()
		defer mu.Unlock()

		// an edited OpenSCAD source may use or include other files now
		if deps, err := watchedFiles(path); err != nil {
			c.logger.Warn("cannot resolve dependencies", "file", path, "error", err)
		} else if !slices.Equal(deps, files) {
			if err := fw.RemoveAll(); err != nil {
				c.logger.Warn("cannot unwatch dependencies", "error", err)
			}
			if err := fw.Watch(deps, reload); err != nil {
				c.logger.Warn("cannot watch dependencies", "error", err)
			}
			files = deps
			c.logger.Info("dependencies changed", "files", len(files))
		}

		c.logger.Info("reloading", "file", path, "changed", changed)
		result, err := c.analyze(ctx, path)
		if err != nil {
			c.logger.Error("reload failed", "file", path, "error", err)
			return
		}
		printSummary(w, path, result)
	}

	reload(path)

	mu.Lock()
	err = fw.Watch(files, reload)
	count := len(files)
	mu.Unlock()
	if err != nil {
		return err
	}
	c.logger.Info("watching for changes", "files", count, "debounce", debounce)

	fw.Run(ctx)
	return nil
}

// watchedFiles lists path and, for OpenSCAD sources, every file it uses or includes
func watchedFiles(path string) ([]string, error) {
	if !openscad.IsSource(path) {
		return []string{path}, nil
	}
	return openscad.NewRenderer(filepath.Dir(path)).ResolveDependencies(filepath.Base(path))
}

func printSummary(w io.Writer, path string, result *analysis.MeasurementResult) {
	fmt.Fprintf(w, "%s: %d vertices, %d triangles, %d solids, closed=%t, area=%.6f, volume=%.6f\n",
		path,
		result.VertexCount,
		result.TriangleCount,
		result.SolidCount,
		result.Closed(),
		result.SurfaceArea,
		result.Volume)
}
