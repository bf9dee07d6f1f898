// Package pkg provides the core libraries for chainlens forensic graph layout.
//
// # Overview
//
// Chainlens positions the nodes of a blockchain transaction graph so that an
// investigator can read it: the victim's wallet sits at the centre, wallets
// one hop away form the first ring, two hops the second, and so on. Nodes
// that were already drawn keep their position when the graph grows, so an
// investigation can be expanded step by step without the picture jumping.
//
// # Architecture
//
// The typical data flow:
//
//	graph.json (nodes, edges, categories)
//	         ↓
//	    [graph] package (wire format + validation)
//	         ↓
//	    [classify] package (fill categories from known addresses)
//	         ↓
//	    [layout] package (rings + relaxation)
//	         ↓
//	    [render] package (SVG, PNG, PDF, JSON, DOT)
//
// [pipeline] ties these together with the [cache] and the [exploration]
// store; the CLI and the HTTP [server] both go through it.
//
// # Quick Start
//
//	import (
//	    "github.com/chainlens/chainlens/pkg/graph"
//	    "github.com/chainlens/chainlens/pkg/layout"
//	    "github.com/chainlens/chainlens/pkg/render"
//	)
//
//	g, _ := graph.ReadGraphFile("case.json")
//	vp := layout.Viewport{Width: 1280, Height: 720}
//	res := layout.NewEngine(layout.DefaultConfig()).Run(g.LayoutNodes(), g.LayoutEdges(), vp, nil, layout.WithSeed(42))
//	svg := render.SVG(graph.NewLayout(g, vp, 42, res))
//
// # Main Packages
//
// ## Layout
//
// [layout] - The engine. Pure and synchronous: it takes nodes, edges, a
// viewport and previous positions and returns one position per node. The main
// node is pinned at the viewport centre; user-positioned nodes keep their
// place unless they overlap a neighbour.
//
// ## Serialization
//
// [graph] - Serialization types for graphs and layouts (JSON node-link format).
//
// ## Domain Support
//
// [classify] - Address tables that fill in categories (exchange hot wallets,
// mixers, bridges) for nodes the caller left uncategorised.
//
// [exploration] - Saved investigations: a graph plus the positions it was last
// drawn at. File, memory and MongoDB stores.
//
// ## Output
//
// [render] - SVG writer with hover highlighting, PNG/PDF conversion via
// rsvg-convert, and pinned DOT for Graphviz.
//
// ## Infrastructure
//
// [pipeline] - Layout and render orchestration with caching, used by CLI and
// API so both behave the same.
//
// [cache] - Layout and artifact cache with file, Redis and no-op backends.
//
// [config] - TOML configuration and backend construction.
//
// [server] - HTTP API over the pipeline.
//
// [observability] - Hooks for layout, render, cache, store and HTTP events.
//
// [errors] - Coded errors shared by every layer.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/layout/...    # Specific package
//	go test -run Example ./...  # Examples only
//
// [layout]: https://pkg.go.dev/github.com/chainlens/chainlens/pkg/layout
// [graph]: https://pkg.go.dev/github.com/chainlens/chainlens/pkg/graph
// [classify]: https://pkg.go.dev/github.com/chainlens/chainlens/pkg/classify
// [exploration]: https://pkg.go.dev/github.com/chainlens/chainlens/pkg/exploration
// [render]: https://pkg.go.dev/github.com/chainlens/chainlens/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/chainlens/chainlens/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/chainlens/chainlens/pkg/cache
// [config]: https://pkg.go.dev/github.com/chainlens/chainlens/pkg/config
// [server]: https://pkg.go.dev/github.com/chainlens/chainlens/pkg/server
// [observability]: https://pkg.go.dev/github.com/chainlens/chainlens/pkg/observability
// [errors]: https://pkg.go.dev/github.com/chainlens/chainlens/pkg/errors
package pkg
