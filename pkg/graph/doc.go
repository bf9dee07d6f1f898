// Package graph provides serialization types for forensic graphs and layouts.
//
// This package defines the canonical wire format for chainlens data, used for
// JSON files, API bodies, exploration storage and cache keys.
//
// # Architecture
//
// The package sits at the serialization boundary between the layout engine
// and the outside world:
//
//   - [Graph], [Layout]: serialization types (this package)
//   - pkg/layout.Node, pkg/layout.Edge: engine input values
//   - pkg/layout.Result: engine output
//
// Use [Graph.LayoutNodes], [Graph.LayoutEdges] and [NewLayout] to convert
// between them.
//
// # Graph Serialization
//
// Graphs use a node-link JSON format:
//
//	{
//	  "nodes": [
//	    {"id": "0xvictim", "category": "main"},
//	    {"id": "0xhot", "category": "cex", "position": {"x": 550, "y": 300}}
//	  ],
//	  "edges": [{"source": "0xvictim", "target": "0xhot", "kind": "transfer"}]
//	}
//
// Categories are the closed set in [layout.Categories]; an unknown category
// fails [Validate] with INVALID_CATEGORY. A node's position, when present, is
// used as its starting point by the engine.
//
// Reading validates; writing sorts nodes and edges so that the same graph
// always produces the same bytes:
//
//	g, _ := graph.ReadGraphFile("case.json")
//	graph.WriteGraphFile(g, "out.json")
//	data, _ := graph.MarshalGraph(g)
//
// # Layout Serialization
//
// A [Layout] carries the graph, the viewport and one position per node:
//
//	l, _ := graph.ReadLayoutFile("layout.json")
//	next := l.Graph() // positioned graph for the next incremental run
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
