package layout

import (
	"math/rand/v2"
)

// Layout defaults.
const (
	// MinSeparation is the minimum distance, in layout units, kept between
	// any two nodes that are not both pinned.
	MinSeparation = 100.0

	// MaxIterations caps the number of relaxation passes.
	MaxIterations = 15

	// DefaultWidth and DefaultHeight stand in for a viewport that has not
	// been measured yet.
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
)

// Config tunes the engine. The zero value of a field falls back to its
// default except for the jitter amplitudes, where zero disables jitter.
type Config struct {
	// MinSeparation is the target distance between nodes. Default 100.
	MinSeparation float64 `toml:"min_separation" json:"min_separation"`
	// MaxIterations caps relaxation passes. Default 15.
	MaxIterations int `toml:"max_iterations" json:"max_iterations"`
	// RingBase and RingStep give the ring radius as a fraction of the
	// viewport's shorter side: RingBase + RingStep*|layer|. Defaults 0.15, 0.1.
	RingBase float64 `toml:"ring_base" json:"ring_base"`
	RingStep float64 `toml:"ring_step" json:"ring_step"`
	// AngleJitter is the maximum angular offset in degrees. Default 3.
	AngleJitter float64 `toml:"angle_jitter" json:"angle_jitter"`
	// RadiusJitter is the maximum relative radius offset. Default 0.05.
	RadiusJitter float64 `toml:"radius_jitter" json:"radius_jitter"`
	// ScatterRatio sizes the rootless scatter disk relative to the shorter
	// viewport side. Default 0.3.
	ScatterRatio float64 `toml:"scatter_ratio" json:"scatter_ratio"`
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		MinSeparation: MinSeparation,
		MaxIterations: MaxIterations,
		RingBase:      0.15,
		RingStep:      0.1,
		AngleJitter:   3,
		RadiusJitter:  0.05,
		ScatterRatio:  0.3,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if !usable(c.MinSeparation) {
		c.MinSeparation = d.MinSeparation
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = d.MaxIterations
	}
	if !usable(c.RingBase) {
		c.RingBase = d.RingBase
	}
	if !usable(c.RingStep) {
		c.RingStep = d.RingStep
	}
	if c.AngleJitter < 0 {
		c.AngleJitter = 0
	}
	if c.RadiusJitter < 0 {
		c.RadiusJitter = 0
	}
	if !usable(c.ScatterRatio) {
		c.ScatterRatio = d.ScatterRatio
	}
	return c
}

// Option configures a single layout call.
type Option func(*settings)

type settings struct {
	rng *rand.Rand
}

// WithSeed makes the run reproducible: the same inputs and seed always
// produce the same coordinates.
func WithSeed(seed uint64) Option {
	return func(s *settings) { s.rng = newRand(seed) }
}

// WithRand supplies the random source directly. The engine draws from it
// sequentially, so it must not be shared with concurrent callers.
func WithRand(r *rand.Rand) Option {
	return func(s *settings) {
		if r != nil {
			s.rng = r
		}
	}
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Engine computes positions for forensic graphs. An Engine holds only its
// configuration and is safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine returns an engine with cfg, filling unset fields with defaults.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Layout positions nodes with the default configuration and returns only the
// coordinates. See [Engine.Run].
func Layout(nodes []Node, edges []Edge, vp Viewport, previous Positions, opts ...Option) Positions {
	return NewEngine(DefaultConfig()).Run(nodes, edges, vp, previous, opts...).Positions
}

// Run assigns a position to every node.
//
// The stages run in order:
//
//  1. Seed: each node's own Position, then any entry in previous for its ID,
//     becomes its starting position. Later entries win.
//  2. Layer: if a node has category main, BFS over the undirected edges gives
//     every reachable node its hop distance. Unreachable nodes get a random
//     layer. Without a main node, unseeded nodes are scattered in a disk
//     around the viewport centre instead.
//  3. Place: an unseeded root goes to the centre; other unseeded nodes are
//     spread on one ring per layer.
//  4. Relax: overlapping pairs are pushed apart until every pair is
//     MinSeparation apart or MaxIterations passes have run. Main nodes are
//     never moved.
//
// Seeded nodes are never re-placed; only relaxation may nudge them. Edges that
// reference unknown IDs are ignored. The inputs are not modified.
func (e *Engine) Run(nodes []Node, edges []Edge, vp Viewport, previous Positions, opts ...Option) Result {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	if s.rng == nil {
		s.rng = newRand(rand.Uint64())
	}
	vp = vp.Normalize()

	ids, byID := index(nodes)
	pos := seed(ids, byID, previous)

	res := Result{Positions: pos, Layers: map[string]int{}}
	for _, id := range ids {
		if _, ok := pos[id]; !ok {
			res.Placed = append(res.Placed, id)
		}
	}
	if len(ids) == 0 {
		res.Converged = true
		return res
	}

	pinned := make(map[string]bool)
	for _, id := range ids {
		if byID[id].IsRoot() {
			if res.Root == "" {
				res.Root = id
			}
			pinned[id] = true
		}
	}

	if res.Root == "" {
		scatter(e.cfg, vp, res.Placed, pos, s.rng)
	} else {
		if _, ok := pos[res.Root]; !ok {
			pos[res.Root] = vp.Center()
		}
		res.Layers = AssignLayers(ids, edges, res.Root)
		assignOrphans(ids, res.Layers, s.rng)

		pending := make([]string, 0, len(res.Placed))
		for _, id := range res.Placed {
			if id != res.Root {
				pending = append(pending, id)
			}
		}
		placeRings(e.cfg, vp, ids, pending, res.Layers, pos, s.rng)
	}

	res.Iterations, res.Converged = relax(e.cfg, ids, pinned, pos, s.rng)
	return res
}

// index returns the distinct IDs in first-seen order and the last node
// recorded for each.
func index(nodes []Node) ([]string, map[string]Node) {
	ids := make([]string, 0, len(nodes))
	byID := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		if _, ok := byID[n.ID]; !ok {
			ids = append(ids, n.ID)
		}
		byID[n.ID] = n
	}
	return ids, byID
}

// seed collects starting positions from the nodes and then from previous.
func seed(ids []string, byID map[string]Node, previous Positions) Positions {
	pos := make(Positions, len(ids))
	for _, id := range ids {
		if p := byID[id].Position; p != nil && p.Finite() {
			pos[id] = *p
		}
		if p, ok := previous[id]; ok && p.Finite() {
			pos[id] = p
		}
	}
	return pos
}
