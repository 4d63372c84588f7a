package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/philipparndt/stlmesh/internal/config"
	"github.com/philipparndt/stlmesh/internal/logging"
	"github.com/philipparndt/stlmesh/version"
	"github.com/spf13/cobra"
)

// cli holds the state shared by all commands
type cli struct {
	configPath  string
	precision   string
	verbose     bool
	veryVerbose bool
	quiet       bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "stlmesh",
		Short: "Load, weld and inspect STL meshes",
		Long: `stlmesh reads text and binary STL files into an indexed mesh.
Coincident corners are welded into shared vertices and the triangles of
every solid are kept together, so the result can be inspected, measured
or dumped as flat buffers. OpenSCAD sources are rendered first.`,
		Version:           version.GetFullVersion(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "Path to a TOML config file (default ./"+config.DefaultFile+" if present)")
	flags.StringVar(&c.precision, "precision", "", "Coordinate precision: float32 or float64")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Log progress")
	flags.BoolVar(&c.veryVerbose, "vv", false, "Log debug details")
	flags.BoolVarP(&c.quiet, "quiet", "q", false, "Only log errors")

	rootCmd.AddCommand(
		newInfoCmd(c),
		newSolidsCmd(c),
		newEdgesCmd(c),
		newTrianglesCmd(c),
		newMeasureCmd(c),
		newDumpCmd(c),
		newRenderCmd(c),
		newWatchCmd(c),
		newVersionCmd(),
	)

	return rootCmd
}

// setup loads the configuration and creates the logger before any command runs
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	c.logger = logging.New(cmd.ErrOrStderr(), logging.LevelFromFlags(c.veryVerbose, c.verbose, c.quiet))

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.precision != "" {
		cfg.Precision = c.precision
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	c.cfg = cfg
	c.logger.Debug("configuration loaded", "precision", cfg.Precision, "dump_format", cfg.DumpFormat)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
