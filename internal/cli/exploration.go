package cli

import (
	"context"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/chainlens/chainlens/pkg/errors"
	"github.com/chainlens/chainlens/pkg/exploration"
	"github.com/chainlens/chainlens/pkg/graph"
	"github.com/chainlens/chainlens/pkg/layout"
	"github.com/chainlens/chainlens/pkg/pipeline"
)

// explorationCommand creates the exploration command group.
func (c *CLI) explorationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "exploration",
		Aliases: []string{"exp"},
		Short:   "Manage saved explorations",
		Long: `Manage saved explorations.

An exploration is a graph together with the positions it was last drawn at.
Updating it with a grown graph keeps every known node where it was and only
places the new ones; dragged nodes keep their dragged position.`,
	}

	cmd.AddCommand(c.explorationCreateCommand())
	cmd.AddCommand(c.explorationUpdateCommand())
	cmd.AddCommand(c.explorationListCommand())
	cmd.AddCommand(c.explorationShowCommand())
	cmd.AddCommand(c.explorationDragCommand())
	cmd.AddCommand(c.explorationDeleteCommand())
	cmd.AddCommand(c.explorationPickCommand())

	return cmd
}

// explorationCreateCommand creates the "exploration create" subcommand.
func (c *CLI) explorationCreateCommand() *cobra.Command {
	var (
		output string
		lf     layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "create [name] [graph.json]",
		Short: "Start an exploration from a graph file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := graph.ReadGraphFile(args[1])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[1], err)
			}

			runner, cfg, err := c.newRunner(ctx, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts := baseOptions(cfg)
			lf.apply(cmd, &opts.Width, &opts.Height, &opts.Seed)

			var exp *exploration.Exploration
			l, _, err := c.computeWithSpinner(ctx, "Creating exploration...", func(ctx context.Context) (graph.Layout, bool, error) {
				l, e, err := runner.Create(ctx, args[0], g, opts)
				exp = e
				return l, false, err
			})
			if err != nil {
				return err
			}

			printSuccess("Created exploration %s", StyleHighlight.Render(exp.ID))
			if err := writeLayoutOutput(l, output); err != nil {
				return err
			}
			printStats(len(l.Nodes), len(l.Edges), false)
			printNewline()
			printNextStep("Grow it", "chainlens exploration update "+exp.ID+" <graph.json>")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "also write the layout to this file")
	lf.register(cmd)
	return cmd
}

// explorationUpdateCommand creates the "exploration update" subcommand.
func (c *CLI) explorationUpdateCommand() *cobra.Command {
	var (
		output string
		lf     layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "update [id] [graph.json]",
		Short: "Lay out an exploration again, optionally with a grown graph",
		Long: `Lay out an exploration again, optionally with a grown graph.

Without a graph file the stored graph is re-laid out from its stored
positions. With one, the graph replaces the stored graph: nodes that were
already positioned stay put, new nodes are placed around them and positions
of nodes that disappeared are dropped.`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: c.completeExplorationIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var next *graph.Graph
			if len(args) == 2 {
				g, err := graph.ReadGraphFile(args[1])
				if err != nil {
					return fmt.Errorf("load graph %s: %w", args[1], err)
				}
				next = &g
			}

			runner, _, err := c.newRunner(ctx, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			var opts pipeline.Options
			lf.apply(cmd, &opts.Width, &opts.Height, &opts.Seed)

			l, _, err := c.computeWithSpinner(ctx, "Updating exploration...", func(ctx context.Context) (graph.Layout, bool, error) {
				l, _, err := runner.Explore(ctx, args[0], next, opts)
				return l, false, err
			})
			if err != nil {
				return err
			}

			printSuccess("Updated exploration %s", StyleHighlight.Render(args[0]))
			if len(l.Placed) > 0 {
				printDetail("placed %d new node(s)", len(l.Placed))
			}
			if err := writeLayoutOutput(l, output); err != nil {
				return err
			}
			printStats(len(l.Nodes), len(l.Edges), false)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "also write the layout to this file")
	lf.register(cmd)
	return cmd
}

// explorationListCommand creates the "exploration list" subcommand.
func (c *CLI) explorationListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved explorations",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, _, err := c.newRunner(ctx, true)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			list, err := runner.List(ctx)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				printInfo("No explorations yet")
				printNextStep("Start one", "chainlens exploration create <name> <graph.json>")
				return nil
			}
			fmt.Println(explorationTable(list, -1, 0, len(list)))
			return nil
		},
	}
}

// explorationShowCommand creates the "exploration show" subcommand.
func (c *CLI) explorationShowCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show an exploration and optionally export its layout",
		Long: `Show an exploration and optionally export its layout.

With -o the exploration is laid out from its stored positions and written as
layout.json; nothing is saved back.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeExplorationIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, _, err := c.newRunner(ctx, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			return c.showExploration(ctx, runner, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write a layout snapshot to this file")
	return cmd
}

func (c *CLI) showExploration(ctx context.Context, runner *pipeline.Runner, id, output string) error {
	exp, err := runner.Get(ctx, id)
	if err != nil {
		return err
	}
	printExploration(exp)

	if output == "" {
		return nil
	}
	l, err := runner.Snapshot(ctx, id, pipeline.Options{})
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	printNewline()
	return writeLayoutOutput(l, output)
}

// explorationDragCommand creates the "exploration drag" subcommand.
func (c *CLI) explorationDragCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "drag [id] [node] [x] [y]",
		Short:             "Move one node of an exploration",
		Args:              cobra.ExactArgs(4),
		ValidArgsFunction: c.completeExplorationIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := parsePoint(args[2], args[3])
			if err != nil {
				return err
			}

			runner, _, err := c.newRunner(ctx, true)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			if _, err := runner.Drag(ctx, args[0], args[1], p); err != nil {
				return err
			}
			printSuccess("Moved %s to (%s, %s)", StyleHighlight.Render(args[1]), fmtCoord(p.X), fmtCoord(p.Y))
			return nil
		},
	}
}

// explorationDeleteCommand creates the "exploration delete" subcommand.
func (c *CLI) explorationDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete [id]",
		Aliases:           []string{"rm"},
		Short:             "Delete an exploration",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeExplorationIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, _, err := c.newRunner(ctx, true)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			if err := runner.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted exploration %s", args[0])
			return nil
		},
	}
}

// explorationPickCommand creates the "exploration pick" subcommand.
func (c *CLI) explorationPickCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose an exploration interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, _, err := c.newRunner(ctx, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			list, err := runner.List(ctx)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				printInfo("No explorations yet")
				return nil
			}

			final, err := tea.NewProgram(NewExplorationListModel(list), tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("picker: %w", err)
			}
			m, ok := final.(ExplorationListModel)
			if !ok || m.Selected == nil {
				printInfo("Nothing selected")
				return nil
			}
			return c.showExploration(ctx, runner, m.Selected.ID, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write a layout snapshot of the selection to this file")
	return cmd
}

// =============================================================================
// Helpers
// =============================================================================

func printExploration(exp *exploration.Exploration) {
	name := exp.Name
	if name == "" {
		name = "—"
	}
	printKeyValue("ID", StyleHighlight.Render(exp.ID))
	printKeyValue("Name", name)
	printKeyValue("Root", exp.Graph.Root())
	printKeyValue("Nodes", StyleNumber.Render(strconv.Itoa(len(exp.Graph.Nodes))))
	printKeyValue("Edges", StyleNumber.Render(strconv.Itoa(len(exp.Graph.Edges))))
	printKeyValue("Positioned", StyleNumber.Render(strconv.Itoa(len(exp.Positions))))
	printKeyValue("Viewport", fmt.Sprintf("%s × %s", fmtCoord(exp.Viewport.Width), fmtCoord(exp.Viewport.Height)))
	printKeyValue("Updated", formatRelativeTime(exp.UpdatedAt))
}

func writeLayoutOutput(l graph.Layout, output string) error {
	if output == "" {
		return nil
	}
	if err := errors.ValidateOutputPath(output); err != nil {
		return err
	}
	if err := graph.WriteLayoutFile(l, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	printFile(output)
	return nil
}

func parsePoint(xs, ys string) (layout.Point, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return layout.Point{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "x %q", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return layout.Point{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "y %q", ys)
	}
	p := layout.Point{X: x, Y: y}
	if !p.Finite() {
		return layout.Point{}, errors.New(errors.ErrCodeInvalidInput, "position (%s, %s) is not finite", xs, ys)
	}
	return p, nil
}

func fmtCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
