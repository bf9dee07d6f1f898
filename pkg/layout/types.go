package layout

import (
	"math"
	"slices"
)

// Category classifies an address or contract in a forensic graph.
type Category string

// Node categories. The empty category means "uncategorised".
const (
	CategoryNone      Category = ""
	CategoryMain      Category = "main"
	CategoryAltWallet Category = "alt_wallet"
	CategoryCEX       Category = "cex"
	CategoryDeFi      Category = "defi"
	CategoryBridge    Category = "bridge"
	CategoryMixer     Category = "mixer"
	CategoryContract  Category = "contract"
	CategoryFlagged   Category = "flagged"
)

var categories = []Category{
	CategoryMain,
	CategoryAltWallet,
	CategoryCEX,
	CategoryDeFi,
	CategoryBridge,
	CategoryMixer,
	CategoryContract,
	CategoryFlagged,
}

// Categories returns the closed set of named categories.
func Categories() []Category { return slices.Clone(categories) }

// Valid reports whether c is one of the named categories or empty.
func (c Category) Valid() bool {
	return c == CategoryNone || slices.Contains(categories, c)
}

// Point is a coordinate in layout space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Node is an address or entity to be placed. Nodes are values: the engine
// never modifies the caller's slice.
type Node struct {
	ID       string
	Label    string
	Category Category
	// Position is the node's existing placement, or nil if it needs one.
	Position *Point
}

// IsRoot reports whether the node anchors the layout.
func (n Node) IsRoot() bool { return n.Category == CategoryMain }

// Edge is an observed relationship between two node IDs. Kind is carried
// through for rendering and ignored by the layout.
type Edge struct {
	Source string
	Target string
	Kind   string
}

// Viewport is the drawing area the layout is centred in.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Normalize replaces missing or unusable dimensions with the defaults.
// A caller that has not painted yet can pass the zero Viewport.
func (v Viewport) Normalize() Viewport {
	if !usable(v.Width) {
		v.Width = DefaultWidth
	}
	if !usable(v.Height) {
		v.Height = DefaultHeight
	}
	return v
}

// Center returns the midpoint of the viewport.
func (v Viewport) Center() Point { return Point{X: v.Width / 2, Y: v.Height / 2} }

// MinDim returns the shorter side of the viewport.
func (v Viewport) MinDim() float64 { return math.Min(v.Width, v.Height) }

func usable(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Positions maps node IDs to coordinates.
type Positions map[string]Point

// Clone returns a copy of p.
func (p Positions) Clone() Positions {
	out := make(Positions, len(p))
	for id, pt := range p {
		out[id] = pt
	}
	return out
}

// Result is the outcome of a layout run.
type Result struct {
	// Positions holds one entry for every distinct input node ID.
	Positions Positions
	// Layers holds the hop distance from the root for every node that was
	// assigned one. Unreachable nodes carry a nonzero random layer. Empty when
	// the graph has no root.
	Layers map[string]int
	// Root is the ID of the anchoring node, or empty.
	Root string
	// Placed lists the IDs that had no position before this run, in input order.
	Placed []string
	// Iterations is the number of relaxation passes executed.
	Iterations int
	// Converged is false when relaxation stopped at the iteration cap with
	// pairs still closer than the minimum separation.
	Converged bool
}
