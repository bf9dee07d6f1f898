// Package render draws positioned forensic graphs.
//
// # Overview
//
// Every renderer consumes a [graph.Layout], so what is drawn is exactly what
// the layout engine produced. The package provides:
//
//   - [SVG]: a self-contained SVG with nodes coloured by category
//   - [DOT]: Graphviz DOT with every node pinned at its layout position
//   - [Graphviz]: DOT rendered through Graphviz (neato, pinned positions)
//   - [ToPDF], [ToPNG]: SVG conversion via the external rsvg-convert tool
//
// [Render] dispatches on a [Format] and is what the pipeline calls.
//
//	svg := render.SVG(l, render.WithStyle(render.Dark), render.WithLabels())
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// # Coordinates
//
// Layout space is SVG space: x grows right, y grows down, and one layout unit
// is one SVG user unit. The SVG viewBox covers the layout viewport and grows
// to include any node that relaxation pushed outside it. DOT output flips y,
// because Graphviz points grow upward.
package render
