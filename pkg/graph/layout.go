package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chainlens/chainlens/pkg/layout"
)

// =============================================================================
// Layout - Positioned Graph
// =============================================================================

// Layout is the serialized result of a layout run: the graph that was laid
// out together with one position per distinct node ID.
//
// Layouts are what the renderers consume and what the cache stores. Nodes in
// a Layout carry their final positions as well, so a Layout's Nodes can be fed
// back as a Graph for the next incremental call.
type Layout struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Style  string  `json:"style,omitempty" bson:"style,omitempty"`
	Seed   uint64  `json:"seed,omitempty" bson:"seed,omitempty"`

	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`

	Positions layout.Positions `json:"positions" bson:"positions"`
	Layers    map[string]int   `json:"layers,omitempty" bson:"layers,omitempty"`
	Root      string           `json:"root,omitempty" bson:"root,omitempty"`

	// Placed lists the nodes that received a fresh position in this run.
	Placed     []string `json:"placed,omitempty" bson:"placed,omitempty"`
	Iterations int      `json:"iterations" bson:"iterations"`
	Converged  bool     `json:"converged" bson:"converged"`
}

// NewLayout combines an input graph, the viewport it was laid out in and the
// engine result.
func NewLayout(g Graph, vp layout.Viewport, seed uint64, res layout.Result) Layout {
	vp = vp.Normalize()
	return Layout{
		Width:      vp.Width,
		Height:     vp.Height,
		Seed:       seed,
		Nodes:      g.WithPositions(res.Positions).Nodes,
		Edges:      g.Clone().Edges,
		Positions:  res.Positions,
		Layers:     res.Layers,
		Root:       res.Root,
		Placed:     res.Placed,
		Iterations: res.Iterations,
		Converged:  res.Converged,
	}
}

// Viewport returns the layout's drawing area.
func (l Layout) Viewport() layout.Viewport {
	return layout.Viewport{Width: l.Width, Height: l.Height}
}

// Graph returns the positioned graph, suitable as input to the next run.
func (l Layout) Graph() Graph {
	return Graph{Nodes: l.Nodes, Edges: l.Edges}.WithPositions(l.Positions)
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// A layout without a positions map is rejected.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Positions == nil {
		return Layout{}, fmt.Errorf("layout must contain positions")
	}
	for _, n := range l.Nodes {
		if _, ok := l.Positions[n.ID]; !ok {
			return Layout{}, fmt.Errorf("layout has no position for node %q", n.ID)
		}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
