package graph

import (
	"fmt"

	"github.com/chainlens/chainlens/pkg/errors"
	"github.com/chainlens/chainlens/pkg/layout"
)

// Validate rejects graphs the wire format cannot represent: empty or
// malformed node IDs and unknown categories. Everything the layout engine
// tolerates (dangling edges, duplicate IDs, several main nodes) passes and is
// reported by [Warnings] instead.
func Validate(g Graph) error {
	for i, n := range g.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %d", i)
		}
		if !n.Category.Valid() {
			return errors.New(errors.ErrCodeInvalidCategory,
				"node %q has unknown category %q", n.ID, n.Category)
		}
		if n.Position != nil && !n.Position.Finite() {
			return errors.New(errors.ErrCodeInvalidGraph, "node %q has a non-finite position", n.ID)
		}
	}
	for i, e := range g.Edges {
		if e.Source == "" || e.Target == "" {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %d has an empty endpoint", i)
		}
	}
	return nil
}

// Warnings lists conditions that are legal but probably unintended.
func Warnings(g Graph) []string {
	var out []string
	known := make(map[string]bool, len(g.Nodes))
	var mains []string
	for _, n := range g.Nodes {
		if known[n.ID] {
			out = append(out, fmt.Sprintf("duplicate node %q: last entry wins", n.ID))
		}
		known[n.ID] = true
		if n.Category == layout.CategoryMain {
			mains = append(mains, n.ID)
		}
	}
	if len(mains) > 1 {
		out = append(out, fmt.Sprintf("%d main nodes: %q is the root, the rest are only pinned", len(mains), mains[0]))
	}
	for _, e := range g.Edges {
		switch {
		case !known[e.Source] || !known[e.Target]:
			out = append(out, fmt.Sprintf("edge %s -> %s references an unknown node and is ignored", e.Source, e.Target))
		case e.Source == e.Target:
			out = append(out, fmt.Sprintf("self-loop on %q is ignored", e.Source))
		}
	}
	return out
}
