package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/chainlens/chainlens/pkg/errors"
	"github.com/chainlens/chainlens/pkg/graph"
	"github.com/chainlens/chainlens/pkg/render"
)

// renderFlags holds the command-line flags for the render command.
type renderFlags struct {
	output    string // output file (single format) or base path (several)
	formats   string // comma-separated output formats
	style     string // colour scheme: light or dark
	labels    bool   // draw node labels
	dotEngine bool   // draw through Graphviz neato instead of the native SVG writer
	noCache   bool
	refresh   bool
}

// renderCommand creates the render command for drawing a computed layout.
func (c *CLI) renderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a layout to SVG, PNG, PDF, JSON or DOT",
		Long: `Render a layout produced by 'chainlens layout' or 'chainlens exploration show -o'.

Several formats can be requested at once (-f svg,png). PNG and PDF output
needs rsvg-convert on PATH. DOT output pins every node at its computed
position so Graphviz tools draw the same picture.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVar(&f.style, "style", "", "colour scheme: light (default), dark")
	cmd.Flags().BoolVar(&f.labels, "labels", false, "draw node labels")
	cmd.Flags().BoolVar(&f.dotEngine, "graphviz", false, "draw svg/png through Graphviz neato with pinned positions")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "re-render even when cached artifacts exist")

	return cmd
}

// runRender loads the layout, renders every requested format and writes the
// files.
func (c *CLI) runRender(cmd *cobra.Command, input string, f renderFlags) error {
	ctx := cmd.Context()
	prog := newProgress(c.Logger)

	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner, cfg, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := baseOptions(cfg)
	opts.Formats = parseFormats(f.formats)
	opts.Refresh = f.refresh
	if cmd.Flags().Changed("style") {
		opts.Style = f.style
	}
	if cmd.Flags().Changed("labels") {
		opts.ShowLabels = f.labels
	}

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	var (
		artifacts map[string][]byte
		cacheHit  bool
	)
	if f.dotEngine {
		artifacts, err = renderGraphviz(ctx, l, opts.Formats, opts.Style, opts.ShowLabels)
	} else {
		artifacts, cacheHit, err = runner.RenderWithCacheInfo(ctx, l, opts)
	}
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifacts, f.output, input)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Wrote %d file(s)", len(paths)))

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(l.Nodes), len(l.Edges), cacheHit)
	return nil
}

// renderGraphviz writes the layout as pinned DOT and lets Graphviz draw it.
func renderGraphviz(ctx context.Context, l graph.Layout, formats []string, styleName string, labels bool) (map[string][]byte, error) {
	parsed, err := render.ParseFormats(formats)
	if err != nil {
		return nil, err
	}
	style, err := render.LookupStyle(styleName)
	if err != nil {
		return nil, err
	}
	dot := render.DOT(l, render.DOTOptions{Style: style, ShowLabels: labels})

	artifacts := make(map[string][]byte, len(parsed))
	for _, f := range parsed {
		if f == render.FormatDOT {
			artifacts[string(f)] = []byte(dot)
			continue
		}
		data, err := render.Graphviz(ctx, dot, f)
		if err != nil {
			return nil, fmt.Errorf("graphviz %s: %w", f, err)
		}
		artifacts[string(f)] = data
	}
	return artifacts, nil
}

// writeArtifacts writes one file per format. With a single format and an
// explicit output, that path is used as is.
func writeArtifacts(artifacts map[string][]byte, output, input string) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for format := range artifacts {
		formats = append(formats, format)
	}
	sort.Strings(formats)

	base := basePath(output, input)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if len(formats) == 1 && output != "" {
			path = output
		}
		if err := errors.ValidateOutputPath(path); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
