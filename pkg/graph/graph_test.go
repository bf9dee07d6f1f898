package graph

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chainlens/chainlens/pkg/errors"
	"github.com/chainlens/chainlens/pkg/layout"
)

func sample() Graph {
	return Graph{
		Nodes: []Node{
			{ID: "0xvictim", Category: layout.CategoryMain},
			{ID: "0xhot", Label: "Binance 14", Category: layout.CategoryCEX, Position: &layout.Point{X: 550, Y: 300}},
			{ID: "0xalt", Category: layout.CategoryAltWallet},
		},
		Edges: []Edge{
			{Source: "0xvictim", Target: "0xhot", Kind: KindTransfer},
			{Source: "0xalt", Target: "0xvictim", Kind: KindTransfer},
		},
	}
}

func TestMarshalGraph_Deterministic(t *testing.T) {
	g := sample()
	shuffled := g.Clone()
	shuffled.Nodes[0], shuffled.Nodes[2] = shuffled.Nodes[2], shuffled.Nodes[0]
	shuffled.Edges[0], shuffled.Edges[1] = shuffled.Edges[1], shuffled.Edges[0]

	a, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	b, err := MarshalGraph(shuffled)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("MarshalGraph output depends on input order:\n%s\n---\n%s", a, b)
	}
}

func TestReadGraph(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode errors.Code
		check    func(t *testing.T, g Graph)
	}{
		{
			name: "ValidWithPosition",
			input: `{"nodes":[{"id":"b","category":"cex","position":{"x":1,"y":2}},{"id":"a","category":"main"}],
				"edges":[{"source":"a","target":"b","kind":"transfer"}]}`,
			check: func(t *testing.T, g Graph) {
				if g.Nodes[0].ID != "b" {
					t.Errorf("node order not preserved: first = %s", g.Nodes[0].ID)
				}
				if g.Nodes[0].Position == nil || *g.Nodes[0].Position != (layout.Point{X: 1, Y: 2}) {
					t.Errorf("position = %v, want (1,2)", g.Nodes[0].Position)
				}
				if g.Root() != "a" {
					t.Errorf("Root() = %q, want a", g.Root())
				}
			},
		},
		{
			name:     "EmptyID",
			input:    `{"nodes":[{"id":""}],"edges":[]}`,
			wantCode: errors.ErrCodeInvalidGraph,
		},
		{
			name:     "UnknownCategory",
			input:    `{"nodes":[{"id":"a","category":"exchange"}],"edges":[]}`,
			wantCode: errors.ErrCodeInvalidCategory,
		},
		{
			name:     "EmptyEdgeEndpoint",
			input:    `{"nodes":[{"id":"a"}],"edges":[{"source":"a","target":""}]}`,
			wantCode: errors.ErrCodeInvalidGraph,
		},
		{
			name:  "DanglingEdgeIsNotAnError",
			input: `{"nodes":[{"id":"a"}],"edges":[{"source":"a","target":"ghost"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadGraph(strings.NewReader(tt.input))
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("ReadGraph() error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadGraph() error = %v", err)
			}
			if tt.check != nil {
				tt.check(t, g)
			}
		})
	}
}

func TestReadGraph_Malformed(t *testing.T) {
	if _, err := ReadGraph(strings.NewReader("{not json")); err == nil {
		t.Error("ReadGraph(malformed) = nil error")
	}
}

func TestGraphFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := WriteGraphFile(sample(), path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	got, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if len(got.Nodes) != 3 || len(got.Edges) != 2 {
		t.Errorf("round trip = %d nodes %d edges, want 3 and 2", len(got.Nodes), len(got.Edges))
	}
	if pos := got.Positions(); pos["0xhot"] != (layout.Point{X: 550, Y: 300}) {
		t.Errorf("position lost: %v", pos)
	}
}

func TestReadGraphFile_Missing(t *testing.T) {
	if _, err := ReadGraphFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("ReadGraphFile(missing) = nil error")
	}
}

func TestWarnings(t *testing.T) {
	g := Graph{
		Nodes: []Node{
			{ID: "a", Category: layout.CategoryMain},
			{ID: "b", Category: layout.CategoryMain},
			{ID: "a"},
		},
		Edges: []Edge{
			{Source: "a", Target: "ghost"},
			{Source: "b", Target: "b"},
			{Source: "a", Target: "b"},
		},
	}

	w := Warnings(g)

	if len(w) != 4 {
		t.Fatalf("Warnings() = %d entries, want 4: %v", len(w), w)
	}
	if err := Validate(g); err != nil {
		t.Errorf("Validate() = %v, want nil for warnings-only graph", err)
	}
}

func TestLayoutNodes_CopiesPositions(t *testing.T) {
	g := sample()
	nodes := g.LayoutNodes()
	nodes[1].Position.X = -1

	if g.Nodes[1].Position.X != 550 {
		t.Error("LayoutNodes shares position pointers with the graph")
	}
	if nodes[0].Category != layout.CategoryMain || nodes[1].Label != "Binance 14" {
		t.Errorf("conversion lost fields: %+v", nodes[:2])
	}
}

func TestFromLayout_Sorted(t *testing.T) {
	g := FromLayout(
		[]layout.Node{{ID: "z"}, {ID: "a", Category: layout.CategoryMain}},
		[]layout.Edge{{Source: "z", Target: "a"}, {Source: "a", Target: "z"}},
	)
	if g.Nodes[0].ID != "a" || g.Edges[0].Source != "a" {
		t.Errorf("FromLayout not sorted: %+v", g)
	}
}

func TestWithPositions(t *testing.T) {
	g := sample()
	out := g.WithPositions(layout.Positions{"0xvictim": {X: 400, Y: 300}})

	if out.Nodes[0].Position == nil || out.Nodes[0].Position.X != 400 {
		t.Errorf("position not applied: %v", out.Nodes[0].Position)
	}
	if g.Nodes[0].Position != nil {
		t.Error("WithPositions mutated the receiver")
	}
	if out.Nodes[1].Position.X != 550 {
		t.Error("unlisted node lost its position")
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	g := sample()
	res := layout.NewEngine(layout.DefaultConfig()).Run(g.LayoutNodes(), g.LayoutEdges(), layout.Viewport{}, nil, layout.WithSeed(5))
	l := NewLayout(g, layout.Viewport{}, 5, res)

	if l.Width != layout.DefaultWidth || l.Height != layout.DefaultHeight {
		t.Errorf("viewport = %vx%v, want defaults", l.Width, l.Height)
	}

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if len(got.Positions) != 3 {
		t.Errorf("positions = %d, want 3", len(got.Positions))
	}
	for _, n := range got.Graph().Nodes {
		if n.Position == nil || *n.Position != got.Positions[n.ID] {
			t.Errorf("Graph() node %s position = %v, want %v", n.ID, n.Position, got.Positions[n.ID])
		}
	}
}

func TestUnmarshalLayout_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"NoPositions", `{"width":800,"height":600,"nodes":[],"edges":[]}`},
		{"MissingNodePosition", `{"nodes":[{"id":"a"}],"edges":[],"positions":{}}`},
		{"Malformed", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnmarshalLayout([]byte(tt.input)); err == nil {
				t.Error("UnmarshalLayout() = nil error")
			}
		})
	}
}

func TestReadLayoutFile_Missing(t *testing.T) {
	if _, err := ReadLayoutFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ReadLayoutFile(missing) = nil error")
	}
}
