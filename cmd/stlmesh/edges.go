package main

import (
	"fmt"
	"io"

	"github.com/philipparndt/stlmesh/pkg/analysis"
	"github.com/spf13/cobra"
)

type edgesOptions struct {
	count     int
	longest   bool
	shortest  bool
	minLength float64
	maxLength float64
}

func newEdgesCmd(c *cli) *cobra.Command {
	opts := &edgesOptions{}

	edgesCmd := &cobra.Command{
		Use:   "edges [file]",
		Short: "Analyze and measure edges in an STL file",
		Long:  "Find and measure the unique edges of the welded mesh, including longest, shortest, or edges within a specific length range.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("count") {
				opts.count = c.cfg.EdgeCount
			}
			if opts.count < 0 {
				return fmt.Errorf("count must not be negative, got %d", opts.count)
			}

			result, err := c.analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printEdges(cmd.OutOrStdout(), result, opts)
			return nil
		},
	}

	edgesCmd.Flags().IntVarP(&opts.count, "count", "n", 10, "Number of edges to display (default from config)")
	edgesCmd.Flags().BoolVarP(&opts.longest, "longest", "l", false, "Show longest edges")
	edgesCmd.Flags().BoolVarP(&opts.shortest, "shortest", "s", false, "Show shortest edges")
	edgesCmd.Flags().Float64Var(&opts.minLength, "min", 0.0, "Minimum edge length filter")
	edgesCmd.Flags().Float64Var(&opts.maxLength, "max", 0.0, "Maximum edge length filter")
	edgesCmd.MarkFlagsMutuallyExclusive("longest", "shortest")

	return edgesCmd
}

func printEdges(w io.Writer, result *analysis.MeasurementResult, opts *edgesOptions) {
	var edges []analysis.EdgeInfo
	var title string

	switch {
	case opts.longest:
		edges = analysis.FindLongestEdges(result, opts.count)
		title = fmt.Sprintf("Top %d Longest Edges", len(edges))
	case opts.shortest:
		edges = analysis.FindShortestEdges(result, opts.count)
		title = fmt.Sprintf("Top %d Shortest Edges", len(edges))
	case opts.maxLength > 0:
		edges = analysis.FindEdgesByLength(result, opts.minLength, opts.maxLength)
		title = fmt.Sprintf("Edges between %.6f and %.6f units (found %d)", opts.minLength, opts.maxLength, len(edges))
		if len(edges) > opts.count {
			edges = edges[:opts.count]
		}
	default:
		edges = result.AllEdges
		if len(edges) > opts.count {
			edges = edges[:opts.count]
		}
		title = fmt.Sprintf("All Edges (showing first %d of %d)", len(edges), result.EdgeCount)
	}

	fmt.Fprintln(w, title)
	fmt.Fprintln(w, "====================")
	fmt.Fprintf(w, "Total edges in mesh: %d\n", result.EdgeCount)
	fmt.Fprintf(w, "Min edge length: %.6f units\n", result.MinEdgeLength)
	fmt.Fprintf(w, "Max edge length: %.6f units\n", result.MaxEdgeLength)
	fmt.Fprintf(w, "Avg edge length: %.6f units\n\n", result.AvgEdgeLength)

	if len(edges) == 0 {
		fmt.Fprintln(w, "No edges found matching the criteria.")
		return
	}

	fmt.Fprintf(w, "%-6s %-12s %-35s %-35s %-15s %-5s\n", "Index", "Vertices", "Start", "End", "Length", "Uses")
	fmt.Fprintln(w, "------------------------------------------------------------------------------------------------------------------------")
	for i, edge := range edges {
		fmt.Fprintf(w, "%-6d %-12s %-35s %-35s %-15.6f %-5d\n",
			i+1,
			fmt.Sprintf("%d-%d", edge.From, edge.To),
			analysis.FormatVector(edge.Start),
			analysis.FormatVector(edge.End),
			edge.Length,
			edge.Uses)
	}
}
