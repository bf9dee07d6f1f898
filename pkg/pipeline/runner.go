package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chainlens/chainlens/pkg/cache"
	"github.com/chainlens/chainlens/pkg/classify"
	"github.com/chainlens/chainlens/pkg/errors"
	"github.com/chainlens/chainlens/pkg/exploration"
	"github.com/chainlens/chainlens/pkg/graph"
	"github.com/chainlens/chainlens/pkg/layout"
	"github.com/chainlens/chainlens/pkg/observability"
	"github.com/chainlens/chainlens/pkg/render"
)

// Runner encapsulates pipeline execution with caching and exploration
// persistence. Both CLI and API use it to avoid duplicating that logic.
//
// The Runner is stateless except for its collaborators. Multiple goroutines
// can safely use the same Runner; callers that read-modify-write one
// exploration concurrently must serialise those calls themselves.
type Runner struct {
	Engine     *layout.Engine
	Cache      cache.Cache
	Keyer      cache.Keyer
	Store      exploration.Store
	Classifier *classify.Classifier
	Logger     *log.Logger
}

// NewRunner creates a runner with the default engine configuration.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// A nil store disables the exploration operations.
func NewRunner(c cache.Cache, keyer cache.Keyer, store exploration.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Engine: layout.NewEngine(layout.DefaultConfig()),
		Cache:  c,
		Keyer:  keyer,
		Store:  store,
		Logger: logger,
	}
}

// =============================================================================
// Layout
// =============================================================================

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo
// and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, g graph.Graph, previous layout.Positions, opts Options) (graph.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, g, previous, opts)
	return l, err
}

// ComputeLayoutWithCacheInfo lays out g, seeding from previous, and reports
// whether the result came from the cache. Only layouts with a pinned seed are
// cached; a fresh-seed layout is not reproducible.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, g graph.Graph, previous layout.Positions, opts Options) (graph.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}
	g, err := r.prepare(g, opts.Logger)
	if err != nil {
		return graph.Layout{}, false, err
	}
	return r.layout(ctx, g, previous, opts)
}

// layout runs the engine on a prepared graph with validated options.
func (r *Runner) layout(ctx context.Context, g graph.Graph, previous layout.Positions, opts Options) (graph.Layout, bool, error) {
	var cacheKey string
	if opts.SeedPinned() {
		graphData, err := graph.MarshalGraph(g)
		if err != nil {
			return graph.Layout{}, false, fmt.Errorf("serialize graph for cache key: %w", err)
		}
		cacheKey = r.Keyer.LayoutKey(cache.Hash(graphData), opts.LayoutKeyOpts(r.Engine.Config(), previous))

		if !opts.Refresh {
			if l, ok := r.cachedLayout(ctx, cacheKey); ok {
				opts.Logger.Debug("layout cache hit", "nodes", len(l.Nodes))
				return l, true, nil
			}
		}
	}

	seed := opts.Seed
	if !opts.SeedPinned() {
		seed = rand.Uint64()
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(g.Nodes), len(g.Edges))
	start := time.Now()

	vp := opts.Viewport()
	res := r.Engine.Run(g.LayoutNodes(), g.LayoutEdges(), vp, previous, layout.WithSeed(seed))
	l := graph.NewLayout(g, vp, seed, res)

	dur := time.Since(start)
	hooks.OnLayoutComplete(ctx, observability.LayoutStats{
		Nodes:      len(res.Positions),
		Placed:     len(res.Placed),
		Iterations: res.Iterations,
		Converged:  res.Converged,
	}, dur, nil)

	opts.Logger.Info("computed layout",
		"nodes", len(res.Positions),
		"placed", len(res.Placed),
		"iterations", res.Iterations,
		"duration", dur)
	if !res.Converged {
		opts.Logger.Warn("relaxation did not converge; some nodes still overlap",
			"iterations", res.Iterations)
	}

	if cacheKey != "" {
		if data, err := graph.MarshalLayout(l); err == nil {
			r.setCache(ctx, cacheKey, data, cache.TTLLayout)
		}
	}
	return l, false, nil
}

// prepare validates g, fills missing categories and logs warnings.
func (r *Runner) prepare(g graph.Graph, logger *log.Logger) (graph.Graph, error) {
	if err := graph.Validate(g); err != nil {
		return graph.Graph{}, err
	}
	if r.Classifier != nil {
		var n int
		g, n = r.Classifier.Apply(g)
		if n > 0 {
			logger.Debug("classified addresses", "count", n)
		}
	}
	for _, w := range graph.Warnings(g) {
		logger.Warn(w)
	}
	return g, nil
}

func (r *Runner) cachedLayout(ctx context.Context, key string) (graph.Layout, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, key)
		return graph.Layout{}, false
	}
	l, err := graph.UnmarshalLayout(data)
	if err != nil {
		// A corrupt entry is treated as a miss and overwritten.
		observability.Cache().OnCacheMiss(ctx, key)
		return graph.Layout{}, false
	}
	observability.Cache().OnCacheHit(ctx, key)
	return l, true
}

func (r *Runner) setCache(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}

// =============================================================================
// Explorations
// =============================================================================

// Create starts a new exploration of g, lays it out and persists it.
func (r *Runner) Create(ctx context.Context, name string, g graph.Graph, opts Options) (graph.Layout, *exploration.Exploration, error) {
	if err := r.requireStore(); err != nil {
		return graph.Layout{}, nil, err
	}
	if err := errors.ValidateName(name); err != nil {
		return graph.Layout{}, nil, err
	}
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, nil, err
	}

	g, err := r.prepare(g, opts.Logger)
	if err != nil {
		return graph.Layout{}, nil, err
	}
	exp := exploration.New(name, g, opts.Viewport())

	l, _, err := r.layout(ctx, exp.Graph, exp.Previous(), opts)
	if err != nil {
		return graph.Layout{}, nil, err
	}
	exp.Update(l)
	if err := r.put(ctx, exp); err != nil {
		return graph.Layout{}, nil, err
	}

	opts.Logger.Info("created exploration", "id", exp.ID, "nodes", len(exp.Graph.Nodes))
	return l, exp, nil
}

// Explore loads exploration id, merges g into it when g is non-nil, lays it
// out seeded from the stored positions and persists the result. Nodes that
// were already positioned stay put; only new nodes are placed.
//
// Width and Height default to the exploration's stored viewport.
func (r *Runner) Explore(ctx context.Context, id string, g *graph.Graph, opts Options) (graph.Layout, *exploration.Exploration, error) {
	exp, err := r.Get(ctx, id)
	if err != nil {
		return graph.Layout{}, nil, err
	}
	r.applyLogger(&opts)
	if opts.Width == 0 && opts.Height == 0 {
		opts.Width, opts.Height = exp.Viewport.Width, exp.Viewport.Height
	}
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, nil, err
	}

	if g != nil {
		next, err := r.prepare(*g, opts.Logger)
		if err != nil {
			return graph.Layout{}, nil, err
		}
		if pruned := exp.Merge(next); pruned > 0 {
			opts.Logger.Debug("pruned stale positions", "id", exp.ID, "count", pruned)
		}
	}

	l, _, err := r.layout(ctx, exp.Graph, exp.Previous(), opts)
	if err != nil {
		return graph.Layout{}, nil, err
	}
	exp.Update(l)
	if err := r.put(ctx, exp); err != nil {
		return graph.Layout{}, nil, err
	}
	return l, exp, nil
}

// Snapshot lays out exploration id from its stored positions without
// persisting anything.
func (r *Runner) Snapshot(ctx context.Context, id string, opts Options) (graph.Layout, error) {
	exp, err := r.Get(ctx, id)
	if err != nil {
		return graph.Layout{}, err
	}
	if opts.Width == 0 && opts.Height == 0 {
		opts.Width, opts.Height = exp.Viewport.Width, exp.Viewport.Height
	}
	return r.ComputeLayout(ctx, exp.Graph, exp.Previous(), opts)
}

// Drag records a user-dragged position for one node of exploration id.
func (r *Runner) Drag(ctx context.Context, id, nodeID string, p layout.Point) (*exploration.Exploration, error) {
	exp, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := exp.ApplyDrag(nodeID, p); err != nil {
		return nil, err
	}
	if err := r.put(ctx, exp); err != nil {
		return nil, err
	}
	r.Logger.Debug("dragged node", "id", exp.ID, "node", nodeID, "x", p.X, "y", p.Y)
	return exp, nil
}

// Get loads exploration id.
func (r *Runner) Get(ctx context.Context, id string) (*exploration.Exploration, error) {
	if err := r.requireStore(); err != nil {
		return nil, err
	}
	id, err := exploration.ParseID(id)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	exp, err := r.Store.Get(ctx, id)
	observability.Store().OnStoreGet(ctx, id, time.Since(start), err)
	return exp, err
}

// List returns all explorations, most recently updated first.
func (r *Runner) List(ctx context.Context) ([]*exploration.Exploration, error) {
	if err := r.requireStore(); err != nil {
		return nil, err
	}
	return r.Store.List(ctx)
}

// Delete removes exploration id.
func (r *Runner) Delete(ctx context.Context, id string) error {
	if err := r.requireStore(); err != nil {
		return err
	}
	id, err := exploration.ParseID(id)
	if err != nil {
		return err
	}
	if err := r.Store.Delete(ctx, id); err != nil {
		return err
	}
	r.Logger.Debug("deleted exploration", "id", id)
	return nil
}

func (r *Runner) put(ctx context.Context, exp *exploration.Exploration) error {
	start := time.Now()
	err := r.Store.Put(ctx, exp)
	observability.Store().OnStorePut(ctx, exp.ID, time.Since(start), err)
	return err
}

func (r *Runner) requireStore() error {
	if r.Store == nil {
		return errors.New(errors.ErrCodeUnsupported, "no exploration store configured")
	}
	return nil
}

// =============================================================================
// Render
// =============================================================================

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// RenderWithCacheInfo generates artifacts keyed by format and reports whether
// all of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	formats, _ := render.ParseFormats(opts.Formats)
	style, _ := render.LookupStyle(opts.Style)

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(formats))
	if !opts.Refresh {
		for _, f := range formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(string(f)))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, key)
				break
			}
			observability.Cache().OnCacheHit(ctx, key)
			artifacts[string(f)] = data
		}
		if len(artifacts) == len(formats) {
			return artifacts, true, nil
		}
	}

	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, names)
	start := time.Now()

	for _, f := range formats {
		data, err := render.Render(ctx, l, f, render.Options{Style: style, ShowLabels: opts.ShowLabels})
		if err != nil {
			hooks.OnRenderComplete(ctx, names, time.Since(start), err)
			return nil, false, fmt.Errorf("render %s: %w", f, err)
		}
		artifacts[string(f)] = data
		r.setCache(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(string(f))), data, cache.TTLArtifact)
	}

	dur := time.Since(start)
	hooks.OnRenderComplete(ctx, names, dur, nil)
	opts.Logger.Info("rendered outputs", "formats", names, "duration", dur)
	return artifacts, false, nil
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var firstErr error
	if r.Cache != nil {
		firstErr = r.Cache.Close()
	}
	if r.Store != nil {
		if err := r.Store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
