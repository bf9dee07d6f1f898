package graph

import (
	"cmp"
	"maps"
	"slices"

	"github.com/chainlens/chainlens/pkg/layout"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visual styles for rendering.
const (
	StyleLight = "light"
	StyleDark  = "dark"
)

// Edge kinds produced by the forensic collectors. Kind is free-form; these
// are the values the renderers style specially.
const (
	KindTransfer = "transfer"
	KindSwap     = "swap"
	KindBridge   = "bridge"
	KindContract = "contract"
)

// =============================================================================
// Graph - Forensic Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for forensic graphs.
// Used for files, API bodies, exploration storage and cache keys.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is an address or entity in the wire format.
type Node struct {
	ID       string          `json:"id" bson:"id"`
	Label    string          `json:"label,omitempty" bson:"label,omitempty"`
	Category layout.Category `json:"category,omitempty" bson:"category,omitempty"`
	Position *layout.Point   `json:"position,omitempty" bson:"position,omitempty"`
	Meta     map[string]any  `json:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is an observed relationship between two addresses.
type Edge struct {
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
	Kind   string `json:"kind,omitempty" bson:"kind,omitempty"`
}

// =============================================================================
// Graph ↔ Layout Engine Conversion
// =============================================================================

// LayoutNodes converts the wire nodes to engine input.
func (g Graph) LayoutNodes() []layout.Node {
	out := make([]layout.Node, len(g.Nodes))
	for i, n := range g.Nodes {
		out[i] = layout.Node{ID: n.ID, Label: n.Label, Category: n.Category}
		if n.Position != nil {
			p := *n.Position
			out[i].Position = &p
		}
	}
	return out
}

// LayoutEdges converts the wire edges to engine input.
func (g Graph) LayoutEdges() []layout.Edge {
	out := make([]layout.Edge, len(g.Edges))
	for i, e := range g.Edges {
		out[i] = layout.Edge{Source: e.Source, Target: e.Target, Kind: e.Kind}
	}
	return out
}

// Positions collects the positions carried on the nodes themselves.
func (g Graph) Positions() layout.Positions {
	pos := make(layout.Positions)
	for _, n := range g.Nodes {
		if n.Position != nil {
			pos[n.ID] = *n.Position
		}
	}
	return pos
}

// FromLayout builds a Graph from engine values. Nodes and edges are sorted
// for deterministic output.
func FromLayout(nodes []layout.Node, edges []layout.Edge) Graph {
	g := Graph{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
	}
	for i, n := range nodes {
		g.Nodes[i] = Node{ID: n.ID, Label: n.Label, Category: n.Category}
		if n.Position != nil {
			p := *n.Position
			g.Nodes[i].Position = &p
		}
	}
	for i, e := range edges {
		g.Edges[i] = Edge{Source: e.Source, Target: e.Target, Kind: e.Kind}
	}
	return g.Sorted()
}

// Sorted returns a copy with nodes ordered by ID and edges by
// (source, target, kind). Node order is otherwise significant to the engine
// (the first main node is the root), so callers sort only for storage and
// hashing.
func (g Graph) Sorted() Graph {
	out := g.Clone()
	slices.SortStableFunc(out.Nodes, func(a, b Node) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortStableFunc(out.Edges, func(a, b Edge) int {
		return cmp.Or(
			cmp.Compare(a.Source, b.Source),
			cmp.Compare(a.Target, b.Target),
			cmp.Compare(a.Kind, b.Kind),
		)
	})
	return out
}

// Clone returns a deep copy of the node and edge slices. Meta maps are
// copied shallowly.
func (g Graph) Clone() Graph {
	out := Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: slices.Clone(g.Edges),
	}
	if out.Edges == nil {
		out.Edges = []Edge{}
	}
	for i, n := range g.Nodes {
		if n.Position != nil {
			p := *n.Position
			n.Position = &p
		}
		if n.Meta != nil {
			n.Meta = maps.Clone(n.Meta)
		}
		out.Nodes[i] = n
	}
	return out
}

// WithPositions returns a copy whose node positions are taken from pos.
// Nodes absent from pos keep their existing position.
func (g Graph) WithPositions(pos layout.Positions) Graph {
	out := g.Clone()
	for i := range out.Nodes {
		if p, ok := pos[out.Nodes[i].ID]; ok {
			out.Nodes[i].Position = &p
		}
	}
	return out
}

// IDs returns the distinct node IDs in first-seen order.
func (g Graph) IDs() []string {
	seen := make(map[string]bool, len(g.Nodes))
	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if !seen[n.ID] {
			seen[n.ID] = true
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// Root returns the ID of the first main node, or "" if there is none.
func (g Graph) Root() string {
	for _, n := range g.Nodes {
		if n.Category == layout.CategoryMain {
			return n.ID
		}
	}
	return ""
}
