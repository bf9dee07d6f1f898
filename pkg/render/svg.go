package render

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/chainlens/chainlens/pkg/graph"
	"github.com/chainlens/chainlens/pkg/layout"
)

// Drawing constants in layout units.
const (
	NodeRadius = 14.0
	mainRing   = 6.0
	padding    = 40.0
)

const nodeInteractionCSS = `
    .node { cursor: pointer; transition: stroke-width 0.2s ease; }
    .node.highlight { stroke-width: 4; }
    .edge { transition: stroke-opacity 0.2s ease; }
    .edge.dim { stroke-opacity: 0.15; }
    .label { pointer-events: none; }`

const nodeInteractionJS = `
    function neighbours(id) {
      const out = new Set([id]);
      document.querySelectorAll('.edge').forEach(e => {
        if (e.dataset.source === id) out.add(e.dataset.target);
        if (e.dataset.target === id) out.add(e.dataset.source);
      });
      return out;
    }
    document.querySelectorAll('.node').forEach(el => {
      el.addEventListener('mouseenter', () => {
        const ids = neighbours(el.dataset.id);
        document.querySelectorAll('.node').forEach(n => n.classList.toggle('highlight', ids.has(n.dataset.id)));
        document.querySelectorAll('.edge').forEach(e => e.classList.toggle('dim', !(ids.has(e.dataset.source) && ids.has(e.dataset.target))));
      });
      el.addEventListener('mouseleave', () => {
        document.querySelectorAll('.node, .edge').forEach(n => n.classList.remove('highlight', 'dim'));
      });
    });`

// SVGOption configures [SVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style       Style
	labels      bool
	radius      float64
	interactive bool
}

// WithStyle selects the colour scheme. A zero Style is ignored.
func WithStyle(s Style) SVGOption {
	return func(r *svgRenderer) {
		if s.Palette != nil {
			r.style = s
		}
	}
}

// WithLabels draws each node's display label below it.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithNodeRadius overrides the node circle radius.
func WithNodeRadius(radius float64) SVGOption {
	return func(r *svgRenderer) {
		if radius > 0 {
			r.radius = radius
		}
	}
}

// WithoutInteraction omits the hover script, for consumers that strip
// scripts anyway (rsvg-convert, image previews).
func WithoutInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = false } }

// SVG renders a layout as a standalone SVG document.
//
// Edges are drawn first, then nodes, then labels, each in input order, so the
// output is deterministic. Edges whose endpoints have no position are skipped.
func SVG(l graph.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{style: Light, radius: NodeRadius, interactive: true}
	for _, opt := range opts {
		opt(&r)
	}

	minX, minY, w, h := viewBox(l, r.radius)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		minX, minY, w, h, w, h)
	fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		minX, minY, w, h, r.style.Background)

	renderEdges(&buf, &r, l)
	renderNodes(&buf, &r, l)
	if r.labels {
		renderLabels(&buf, &r, l)
	}
	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", nodeInteractionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", nodeInteractionJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// viewBox returns the viewport grown to contain every node plus padding.
func viewBox(l graph.Layout, radius float64) (minX, minY, w, h float64) {
	vp := l.Viewport().Normalize()
	minX, minY = 0.0, 0.0
	maxX, maxY := vp.Width, vp.Height
	for _, p := range l.Positions {
		minX = math.Min(minX, p.X-radius-padding)
		minY = math.Min(minY, p.Y-radius-padding)
		maxX = math.Max(maxX, p.X+radius+padding)
		maxY = math.Max(maxY, p.Y+radius+padding)
	}
	return minX, minY, maxX - minX, maxY - minY
}

func renderEdges(buf *bytes.Buffer, r *svgRenderer, l graph.Layout) {
	for _, e := range l.Edges {
		src, okS := l.Positions[e.Source]
		dst, okD := l.Positions[e.Target]
		if !okS || !okD || e.Source == e.Target {
			continue
		}
		dash := ""
		if e.Kind == graph.KindBridge {
			dash = ` stroke-dasharray="6 4"`
		}
		fmt.Fprintf(buf, `  <line class="edge" data-source="%s" data-target="%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1.5"%s/>`+"\n",
			attr(e.Source), attr(e.Target), src.X, src.Y, dst.X, dst.Y, r.style.Edge, dash)
	}
}

func renderNodes(buf *bytes.Buffer, r *svgRenderer, l graph.Layout) {
	for _, n := range dedupe(l.Nodes) {
		p, ok := l.Positions[n.ID]
		if !ok {
			continue
		}
		if n.Category == layout.CategoryMain {
			fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
				p.X, p.Y, r.radius+mainRing, r.style.Fill(n.Category))
		}
		fmt.Fprintf(buf, `  <circle class="node" data-id="%s" data-category="%s" cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="1"><title>%s</title></circle>`+"\n",
			attr(n.ID), attr(string(n.Category)), p.X, p.Y, r.radius, r.style.Fill(n.Category), r.style.Stroke, html.EscapeString(n.DisplayLabel()))
	}
}

func renderLabels(buf *bytes.Buffer, r *svgRenderer, l graph.Layout) {
	for _, n := range dedupe(l.Nodes) {
		p, ok := l.Positions[n.ID]
		if !ok {
			continue
		}
		fmt.Fprintf(buf, `  <text class="label" x="%.1f" y="%.1f" text-anchor="middle" font-family="monospace" font-size="11" fill="%s">%s</text>`+"\n",
			p.X, p.Y+r.radius+14, r.style.Text, html.EscapeString(shorten(n.DisplayLabel())))
	}
}

// dedupe keeps the last entry for each ID at the position of its first
// occurrence, matching how the engine resolves duplicates.
func dedupe(nodes []graph.Node) []graph.Node {
	index := make(map[string]int, len(nodes))
	out := make([]graph.Node, 0, len(nodes))
	for _, n := range nodes {
		if i, ok := index[n.ID]; ok {
			out[i] = n
			continue
		}
		index[n.ID] = len(out)
		out = append(out, n)
	}
	return out
}

// shorten abbreviates long hex addresses as 0x1234…abcd.
func shorten(s string) string {
	r := []rune(s)
	if len(r) <= 16 {
		return s
	}
	return string(r[:6]) + "…" + string(r[len(r)-4:])
}

func attr(s string) string { return html.EscapeString(s) }
