package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainlens/chainlens/pkg/errors"
	"github.com/chainlens/chainlens/pkg/graph"
	"github.com/chainlens/chainlens/pkg/layout"
)

// layoutFlags are the layout options shared by several commands. Unset flags
// fall back to the config file.
type layoutFlags struct {
	width  float64
	height float64
	seed   uint64
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "viewport width (default from config, 800)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "viewport height (default from config, 600)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed; 0 draws a fresh one and skips the cache")
}

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output   string
		previous string
		noCache  bool
		refresh  bool
		lf       layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute node positions for a forensic graph",
		Long: `Compute node positions for a forensic graph.

The main node is pinned at the centre of the viewport. Every other node is
placed on a ring by its hop distance from the main node, then overlapping
nodes are pushed apart. Nodes that carry a position in the graph file, or in
the --previous layout, keep it.

The output is a layout.json file that 'chainlens render' turns into SVG, PNG,
PDF or DOT. Layouts computed with a fixed --seed are cached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], output, previous, noCache, refresh, lf)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVar(&previous, "previous", "", "layout.json whose positions seed this run")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached layout exists")
	lf.register(cmd)

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(cmd *cobra.Command, input, output, previousPath string, noCache, refresh bool, lf layoutFlags) error {
	ctx := cmd.Context()

	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	var previous layout.Positions
	if previousPath != "" {
		prev, err := graph.ReadLayoutFile(previousPath)
		if err != nil {
			return fmt.Errorf("load previous layout %s: %w", previousPath, err)
		}
		previous = prev.Positions
	}

	runner, cfg, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := baseOptions(cfg)
	lf.apply(cmd, &opts.Width, &opts.Height, &opts.Seed)
	opts.Refresh = refresh

	l, cacheHit, err := c.computeWithSpinner(ctx, "Computing layout...", func(ctx context.Context) (graph.Layout, bool, error) {
		return runner.ComputeLayoutWithCacheInfo(ctx, g, previous, opts)
	})
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".layout.json"
	}
	if err := errors.ValidateOutputPath(outputPath); err != nil {
		return err
	}
	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(l.Nodes), len(l.Edges), cacheHit)
	if !l.Converged {
		printWarning("Some nodes still overlap after %d iterations", l.Iterations)
	}
	printNewline()
	printNextStep("Render", "chainlens render "+outputPath)

	return nil
}

// apply copies the flags the user actually set over the config defaults.
func (f layoutFlags) apply(cmd *cobra.Command, width, height *float64, seed *uint64) {
	if cmd.Flags().Changed("width") {
		*width = f.width
	}
	if cmd.Flags().Changed("height") {
		*height = f.height
	}
	if cmd.Flags().Changed("seed") {
		*seed = f.seed
	}
}

// computeWithSpinner runs fn behind a spinner and reports cancellation as
// the context error.
func (c *CLI) computeWithSpinner(ctx context.Context, msg string, fn func(context.Context) (graph.Layout, bool, error)) (graph.Layout, bool, error) {
	spinner := newSpinnerWithContext(ctx, msg)
	spinner.Start()

	l, cacheHit, err := fn(ctx)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return graph.Layout{}, false, fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return graph.Layout{}, false, ctx.Err()
	}
	return l, cacheHit, nil
}
