// Package layout positions forensic transaction graphs in two dimensions.
//
// # Overview
//
// The engine takes a list of address nodes, the relationship edges between
// them, a viewport and the positions from a previous run, and returns a
// coordinate for every node. It holds no state between calls: continuity
// across data refreshes and user drags comes from feeding the previous result
// (plus any drag overrides) back in.
//
//	pos := layout.Layout(nodes, edges, layout.Viewport{Width: 800, Height: 600}, nil)
//	// ... user drags "0xabc" ...
//	prev := pos.Clone()
//	prev["0xabc"] = layout.Point{X: 120, Y: 40}
//	pos = layout.Layout(nodes, edges, vp, prev)
//
// # Stages
//
//  1. Seeding: nodes with a known position keep it.
//  2. Layering: BFS hop distance from the main node over undirected edges
//     ([AssignLayers]). Nodes in other components get a random layer in
//     ±1..4; the value is cosmetic.
//  3. Ring placement: one ring per layer around the viewport centre, with
//     radius max(minDim*(0.15+0.1*|layer|), n*100/2π) and a few degrees of
//     jitter. A graph with no main node is scattered in a central disk.
//  4. Relaxation: up to [MaxIterations] passes push apart pairs closer than
//     [MinSeparation]. The main node never moves.
//
// # Randomness
//
// Jitter and orphan layers are random. Pass [WithSeed] for reproducible
// output; without it each call draws a fresh seed.
//
// # Cost
//
// Layering is O(V+E); relaxation is O(V²) per pass with at most 15 passes,
// comfortable for graphs of a few hundred nodes.
package layout
