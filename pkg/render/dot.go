package render

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/chainlens/chainlens/pkg/errors"
	"github.com/chainlens/chainlens/pkg/graph"
	"github.com/chainlens/chainlens/pkg/layout"
)

// DOTOptions configures [DOT].
type DOTOptions struct {
	Style Style
	// ShowLabels uses display labels instead of raw node IDs, and appends
	// node metadata.
	ShowLabels bool
}

// DOT converts a positioned layout to Graphviz DOT. Every node carries a
// pinned pos attribute, so neato reproduces the layout instead of computing
// its own. Graphviz's y axis points up; y is flipped against the viewport
// height.
func DOT(l graph.Layout, opts DOTOptions) string {
	style := opts.Style
	if style.Palette == nil {
		style = Light
	}
	height := l.Viewport().Normalize().Height

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", style.Background)
	buf.WriteString("  splines=false;\n")
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fixedsize=true, width=0.4, fontsize=10, color=%q, fontcolor=%q];\n",
		style.Stroke, style.Text)
	fmt.Fprintf(&buf, "  edge [color=%q, arrowsize=0.6];\n", style.Edge)
	buf.WriteString("\n")

	for _, n := range dedupe(l.Nodes) {
		p, ok := l.Positions[n.ID]
		if !ok {
			continue
		}
		attrs := []string{
			fmt.Sprintf("label=%q", dotLabel(n, opts.ShowLabels)),
			fmt.Sprintf("fillcolor=%q", style.Fill(n.Category)),
			fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(p.X), fmtFloat(height-p.Y)),
		}
		if n.Category == layout.CategoryMain {
			attrs = append(attrs, "penwidth=3")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		_, okS := l.Positions[e.Source]
		_, okD := l.Positions[e.Target]
		if !okS || !okD || e.Source == e.Target {
			continue
		}
		if e.Kind != "" {
			fmt.Fprintf(&buf, "  %q -> %q [tooltip=%q];\n", e.Source, e.Target, e.Kind)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(n graph.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}
	parts := []string{n.DisplayLabel()}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	return strings.Join(parts, "\n")
}

func fmtFloat(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }

// Graphviz renders a DOT document with neato, honouring pinned positions.
// Format must be SVG or PNG.
func Graphviz(ctx context.Context, dot string, f Format) ([]byte, error) {
	var gvFormat graphviz.Format
	switch f {
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "graphviz cannot produce %q", f)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	if f == FormatSVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites Graphviz's root element so the drawing scales
// with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
