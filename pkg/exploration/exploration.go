// Package exploration persists investigations between layout calls.
//
// An [Exploration] is a saved graph together with the positions it was last
// drawn at, including any node the investigator dragged by hand. Feeding those
// positions back as the engine's previous positions is what keeps the picture
// stable while the graph grows: known nodes stay where they were and only new
// nodes are placed.
//
// # Backends
//
// [Store] has three implementations:
//   - [MemoryStore]: process-local, for tests and single-shot CLI runs
//   - [FileStore]: one JSON file per exploration, for the CLI
//   - [MongoStore]: a MongoDB collection, for the server
//
// # Usage
//
//	exp := exploration.New("Bridge exploit", g, layout.Viewport{Width: 1280, Height: 720})
//	store.Put(ctx, exp)
//
//	exp, err := store.Get(ctx, id)
//	exp.Merge(updatedGraph)            // keep positions of surviving nodes
//	exp.ApplyDrag("0xhot", layout.Point{X: 120, Y: 80})
package exploration

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/chainlens/chainlens/pkg/errors"
	"github.com/chainlens/chainlens/pkg/graph"
	"github.com/chainlens/chainlens/pkg/layout"
)

// Exploration is a saved investigation.
type Exploration struct {
	ID        string           `json:"id"`
	Name      string           `json:"name,omitempty"`
	Graph     graph.Graph      `json:"graph"`
	Positions layout.Positions `json:"positions"`
	Viewport  layout.Viewport  `json:"viewport"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Store is the interface for exploration storage backends.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the exploration with id, or an error coded
	// EXPLORATION_NOT_FOUND.
	Get(ctx context.Context, id string) (*Exploration, error)

	// Put inserts or replaces an exploration.
	Put(ctx context.Context, exp *Exploration) error

	// Delete removes an exploration. Deleting a missing id is an
	// EXPLORATION_NOT_FOUND error.
	Delete(ctx context.Context, id string) error

	// List returns all explorations, most recently updated first.
	List(ctx context.Context) ([]*Exploration, error)

	Close() error
}

// New creates an exploration with a fresh ID. Positions carried on the
// graph's nodes become its initial positions.
func New(name string, g graph.Graph, vp layout.Viewport) *Exploration {
	now := time.Now().UTC()
	return &Exploration{
		ID:        uuid.NewString(),
		Name:      name,
		Graph:     g.Clone(),
		Positions: g.Positions(),
		Viewport:  vp.Normalize(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ParseID checks that id is a well-formed exploration ID and returns its
// canonical form.
func ParseID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid exploration id %q", id)
	}
	return u.String(), nil
}

// NotFound returns the error stores use for a missing exploration.
func NotFound(id string) error {
	return errors.New(errors.ErrCodeExplorationNotFound, "exploration %s not found", id)
}

// Previous returns a copy of the stored positions, ready to pass to the
// layout engine.
func (e *Exploration) Previous() layout.Positions {
	return e.Positions.Clone()
}

// HasNode reports whether the graph contains id.
func (e *Exploration) HasNode(id string) bool {
	return slices.ContainsFunc(e.Graph.Nodes, func(n graph.Node) bool { return n.ID == id })
}

// ApplyDrag records a user-dragged position for one node. The override is
// kept verbatim; relaxation on the next layout may still nudge it if it now
// overlaps a neighbour.
func (e *Exploration) ApplyDrag(nodeID string, p layout.Point) error {
	if !e.HasNode(nodeID) {
		return errors.New(errors.ErrCodeNotFound, "node %q is not in exploration %s", nodeID, e.ID)
	}
	if !p.Finite() {
		return errors.New(errors.ErrCodeInvalidInput, "drag position for %q is not finite", nodeID)
	}
	if e.Positions == nil {
		e.Positions = make(layout.Positions)
	}
	e.Positions[nodeID] = p
	e.touch()
	return nil
}

// Merge replaces the graph with g. Stored positions of nodes still present
// are kept and positions of nodes no longer present are dropped. It returns
// the number of pruned positions.
func (e *Exploration) Merge(g graph.Graph) int {
	e.Graph = g.Clone()
	keep := make(map[string]bool, len(g.Nodes))
	for _, id := range g.IDs() {
		keep[id] = true
	}
	pruned := 0
	for id := range e.Positions {
		if !keep[id] {
			delete(e.Positions, id)
			pruned++
		}
	}
	e.touch()
	return pruned
}

// Update stores the outcome of a layout run.
func (e *Exploration) Update(l graph.Layout) {
	e.Positions = l.Positions.Clone()
	e.Viewport = l.Viewport()
	e.touch()
}

// Positioned returns the graph with the stored positions applied to its
// nodes.
func (e *Exploration) Positioned() graph.Graph {
	return e.Graph.WithPositions(e.Positions)
}

// Clone returns a deep copy.
func (e *Exploration) Clone() *Exploration {
	out := *e
	out.Graph = e.Graph.Clone()
	out.Positions = e.Positions.Clone()
	return &out
}

func (e *Exploration) touch() {
	e.UpdatedAt = time.Now().UTC()
}

// sortByUpdated orders explorations most recently updated first, breaking
// ties by ID for stable listings.
func sortByUpdated(list []*Exploration) {
	slices.SortFunc(list, func(a, b *Exploration) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
}
