package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chainlens/chainlens/pkg/config"
	"github.com/chainlens/chainlens/pkg/errors"
	"github.com/chainlens/chainlens/pkg/exploration"
	"github.com/chainlens/chainlens/pkg/graph"
	"github.com/chainlens/chainlens/pkg/layout"
	"github.com/chainlens/chainlens/pkg/observability"
)

const caseGraph = `{
  "nodes": [
    {"id": "0xvictim", "category": "main"},
    {"id": "0xhot", "category": "cex"},
    {"id": "0xalt", "category": "alt_wallet"},
    {"id": "0xmix", "category": "mixer"}
  ],
  "edges": [
    {"source": "0xvictim", "target": "0xhot", "kind": "transfer"},
    {"source": "0xvictim", "target": "0xalt", "kind": "transfer"},
    {"source": "0xalt", "target": "0xmix", "kind": "transfer"}
  ]
}`

// workspace is a temp dir with a graph file and a config that disables the
// cache and keeps explorations under the temp dir.
type workspace struct {
	dir      string
	config   string
	graph    string
	storeDir string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	dir := t.TempDir()
	ws := workspace{
		dir:      dir,
		config:   filepath.Join(dir, "config.toml"),
		graph:    filepath.Join(dir, "case.json"),
		storeDir: filepath.Join(dir, "explorations"),
	}
	cfg := fmt.Sprintf("[cache]\nbackend = \"none\"\n\n[store]\nbackend = \"file\"\ndir = %q\n", ws.storeDir)
	if err := os.WriteFile(ws.config, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ws.graph, []byte(caseGraph), 0o644); err != nil {
		t.Fatal(err)
	}
	return ws
}

func (ws workspace) run(t *testing.T, args ...string) error {
	t.Helper()
	t.Cleanup(observability.Reset)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append(args, "--config", ws.config))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func (ws workspace) explorations(t *testing.T) []*exploration.Exploration {
	t.Helper()
	store, err := exploration.NewFileStore(ws.storeDir)
	if err != nil {
		t.Fatal(err)
	}
	list, err := store.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return list
}

func TestLayoutCommand(t *testing.T) {
	ws := newWorkspace(t)
	out := filepath.Join(ws.dir, "case.layout.json")

	if err := ws.run(t, "layout", ws.graph, "-o", out, "--seed", "7"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	l, err := graph.ReadLayoutFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(l.Positions) != 4 {
		t.Errorf("positions = %d, want 4", len(l.Positions))
	}
	if l.Seed != 7 {
		t.Errorf("seed = %d, want 7", l.Seed)
	}
	if got := l.Positions["0xvictim"]; got != (layout.Point{X: 400, Y: 300}) {
		t.Errorf("main node at %v, want viewport centre", got)
	}
}

func TestLayoutCommand_PreviousPositionsKept(t *testing.T) {
	ws := newWorkspace(t)
	first := filepath.Join(ws.dir, "first.json")
	second := filepath.Join(ws.dir, "second.json")

	if err := ws.run(t, "layout", ws.graph, "-o", first, "--seed", "1"); err != nil {
		t.Fatalf("first layout: %v", err)
	}
	if err := ws.run(t, "layout", ws.graph, "-o", second, "--seed", "2", "--previous", first); err != nil {
		t.Fatalf("second layout: %v", err)
	}

	a, _ := graph.ReadLayoutFile(first)
	b, _ := graph.ReadLayoutFile(second)
	if len(b.Placed) != 0 {
		t.Errorf("second run placed %v, want no new nodes", b.Placed)
	}
	if a.Positions["0xvictim"] != b.Positions["0xvictim"] {
		t.Errorf("root moved from %v to %v", a.Positions["0xvictim"], b.Positions["0xvictim"])
	}
}

func TestLayoutCommand_Errors(t *testing.T) {
	ws := newWorkspace(t)
	bad := filepath.Join(ws.dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"nodes":[{"id":"a","category":"exchange"}],"edges":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     []string
		wantCode errors.Code
	}{
		{"UnknownCategory", []string{"layout", bad}, errors.ErrCodeInvalidCategory},
		{"NegativeWidth", []string{"layout", ws.graph, "--width", "-5"}, errors.ErrCodeInvalidViewport},
		{"MissingFile", []string{"layout", filepath.Join(ws.dir, "nope.json")}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ws.run(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantCode != "" && !errors.Is(err, tt.wantCode) {
				t.Errorf("error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	ws := newWorkspace(t)
	layoutPath := filepath.Join(ws.dir, "case.layout.json")
	if err := ws.run(t, "layout", ws.graph, "-o", layoutPath, "--seed", "3"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	base := filepath.Join(ws.dir, "out", "case")
	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := ws.run(t, "render", layoutPath, "-f", "svg,dot", "-o", base, "--style", "dark"); err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatalf("svg not written: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("svg output has no <svg> element")
	}
	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatalf("dot not written: %v", err)
	}
	if !strings.Contains(string(dot), `"0xvictim" -> "0xhot"`) {
		t.Errorf("dot output missing edge:\n%s", dot)
	}
}

func TestRenderCommand_InvalidOptions(t *testing.T) {
	ws := newWorkspace(t)
	layoutPath := filepath.Join(ws.dir, "case.layout.json")
	if err := ws.run(t, "layout", ws.graph, "-o", layoutPath, "--seed", "3"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	tests := []struct {
		name     string
		args     []string
		wantCode errors.Code
	}{
		{"Style", []string{"render", layoutPath, "--style", "neon"}, errors.ErrCodeInvalidStyle},
		{"Format", []string{"render", layoutPath, "-f", "gif"}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ws.run(t, tt.args...); !errors.Is(err, tt.wantCode) {
				t.Errorf("error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestExplorationCommands(t *testing.T) {
	ws := newWorkspace(t)

	if err := ws.run(t, "exploration", "create", "Bridge exploit", ws.graph, "--seed", "11"); err != nil {
		t.Fatalf("create: %v", err)
	}
	list := ws.explorations(t)
	if len(list) != 1 {
		t.Fatalf("explorations = %d, want 1", len(list))
	}
	exp := list[0]
	if exp.Name != "Bridge exploit" || len(exp.Positions) != 4 {
		t.Errorf("created exploration = %q with %d positions", exp.Name, len(exp.Positions))
	}

	if err := ws.run(t, "exploration", "drag", exp.ID, "0xhot", "10", "20"); err != nil {
		t.Fatalf("drag: %v", err)
	}
	if got := ws.explorations(t)[0].Positions["0xhot"]; got != (layout.Point{X: 10, Y: 20}) {
		t.Errorf("dragged position = %v, want (10,20)", got)
	}

	snapshot := filepath.Join(ws.dir, "snapshot.json")
	if err := ws.run(t, "exploration", "show", exp.ID, "-o", snapshot); err != nil {
		t.Fatalf("show: %v", err)
	}
	if _, err := graph.ReadLayoutFile(snapshot); err != nil {
		t.Errorf("snapshot not readable: %v", err)
	}

	if err := ws.run(t, "exploration", "list"); err != nil {
		t.Errorf("list: %v", err)
	}

	if err := ws.run(t, "exploration", "delete", exp.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := len(ws.explorations(t)); n != 0 {
		t.Errorf("explorations after delete = %d, want 0", n)
	}
}

func TestExplorationUpdate_GrowsGraph(t *testing.T) {
	ws := newWorkspace(t)
	if err := ws.run(t, "exploration", "create", "Case", ws.graph, "--seed", "5"); err != nil {
		t.Fatalf("create: %v", err)
	}
	before := ws.explorations(t)[0]

	grown := strings.Replace(caseGraph,
		`{"id": "0xmix", "category": "mixer"}`,
		`{"id": "0xmix", "category": "mixer"}, {"id": "0xnew", "category": "defi"}`, 1)
	grownPath := filepath.Join(ws.dir, "grown.json")
	if err := os.WriteFile(grownPath, []byte(grown), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(ws.dir, "grown.layout.json")
	if err := ws.run(t, "exploration", "update", before.ID, grownPath, "-o", out, "--seed", "6"); err != nil {
		t.Fatalf("update: %v", err)
	}

	l, err := graph.ReadLayoutFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(l.Placed, []string{"0xnew"}) {
		t.Errorf("placed = %v, want [0xnew]", l.Placed)
	}
	if l.Positions["0xvictim"] != before.Positions["0xvictim"] {
		t.Error("root moved while the graph grew")
	}
}

func TestExplorationCommands_Errors(t *testing.T) {
	ws := newWorkspace(t)
	if err := ws.run(t, "exploration", "create", "Case", ws.graph); err != nil {
		t.Fatalf("create: %v", err)
	}
	id := ws.explorations(t)[0].ID
	missing := "00000000-0000-0000-0000-000000000000"

	tests := []struct {
		name     string
		args     []string
		wantCode errors.Code
	}{
		{"DragUnknownNode", []string{"exploration", "drag", id, "0xghost", "1", "2"}, errors.ErrCodeNotFound},
		{"DragBadCoordinate", []string{"exploration", "drag", id, "0xhot", "left", "2"}, errors.ErrCodeInvalidInput},
		{"DragNaN", []string{"exploration", "drag", id, "0xhot", "NaN", "2"}, errors.ErrCodeInvalidInput},
		{"ShowMissing", []string{"exploration", "show", missing}, errors.ErrCodeExplorationNotFound},
		{"DeleteMissing", []string{"exploration", "delete", missing}, errors.ErrCodeExplorationNotFound},
		{"MalformedID", []string{"exploration", "show", "not-a-uuid"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ws.run(t, tt.args...); !errors.Is(err, tt.wantCode) {
				t.Errorf("error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	cfgPath := filepath.Join(dir, "config.toml")
	cfg := fmt.Sprintf("[cache]\nbackend = \"file\"\ndir = %q\n", cacheDir)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cacheDir, "stale"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	ws := workspace{config: cfgPath}
	if err := ws.run(t, "cache", "path"); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if err := ws.run(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cacheDir, "stale")); !os.IsNotExist(err) {
		t.Errorf("stale entry survived clear: %v", err)
	}
}

func TestMissingConfigFile(t *testing.T) {
	ws := workspace{config: filepath.Join(t.TempDir(), "absent.toml")}
	if err := ws.run(t, "cache", "path"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

// =============================================================================
// Helpers
// =============================================================================

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,png,pdf", []string{"svg", "png", "pdf"}},
		{" svg , dot ,", []string{"svg", "dot"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "case.layout.json", "case.layout"},
		{"", "dir/case.json", "dir/case"},
		{"out.svg", "case.json", "out"},
		{"out.PNG", "case.json", "out"},
		{"out.v2", "case.json", "out.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestBaseOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.Width, cfg.Layout.Height, cfg.Layout.Seed = 1280, 720, 9
	cfg.Render.Style, cfg.Render.Labels = "dark", true

	opts := baseOptions(cfg)
	if opts.Width != 1280 || opts.Height != 720 || opts.Seed != 9 {
		t.Errorf("layout options = %+v", opts)
	}
	if opts.Style != "dark" || !opts.ShowLabels {
		t.Errorf("render options = %+v", opts)
	}
	if opts.Logger != nil {
		t.Error("baseOptions set a logger; the runner's logger would be ignored")
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "dot": []byte("digraph {}")}

	paths, err := writeArtifacts(artifacts, "", filepath.Join(dir, "case.json"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "case.dot"), filepath.Join(dir, "case.svg")}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}

	single := filepath.Join(dir, "exact.out")
	paths, err = writeArtifacts(map[string][]byte{"svg": []byte("<svg/>")}, single, "case.json")
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || paths[0] != single {
		t.Errorf("single-format output = %v, want %s", paths, single)
	}
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		x, y    string
		want    layout.Point
		wantErr bool
	}{
		{"10", "20.5", layout.Point{X: 10, Y: 20.5}, false},
		{"-3", "0", layout.Point{X: -3}, false},
		{"x", "1", layout.Point{}, true},
		{"1", "Inf", layout.Point{}, true},
	}
	for _, tt := range tests {
		got, err := parsePoint(tt.x, tt.y)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePoint(%q, %q) error = %v, wantErr %v", tt.x, tt.y, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePoint(%q, %q) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestCacheLocation(t *testing.T) {
	tests := []struct {
		name string
		cc   config.CacheConfig
		want string
	}{
		{"None", config.CacheConfig{Backend: config.BackendNone}, "disabled"},
		{"Redis", config.CacheConfig{Backend: config.BackendRedis, RedisAddr: "cache:6379", RedisDB: 2, Prefix: "cl:"}, `redis://cache:6379/2 (prefix "cl:")`},
		{"FileDir", config.CacheConfig{Backend: config.BackendFile, Dir: "/var/cache/chainlens"}, "/var/cache/chainlens"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cacheLocation(tt.cc); got != tt.want {
				t.Errorf("cacheLocation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
		{30 * 24 * time.Hour, "Feb 8, 2026"},
	}
	for _, tt := range tests {
		if got := relativeTime(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("relativeTime(-%s) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

// =============================================================================
// Picker
// =============================================================================

func pickerItems() []*exploration.Exploration {
	g := graph.Graph{Nodes: []graph.Node{{ID: "0xvictim", Category: layout.CategoryMain}}}
	var items []*exploration.Exploration
	for _, name := range []string{"Bridge exploit", "Phishing", "Rug pull"} {
		items = append(items, exploration.New(name, g, layout.Viewport{}))
	}
	return items
}

func press(m tea.Model, key string) (tea.Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	return m.Update(msg)
}

func TestExplorationListModel_Select(t *testing.T) {
	items := pickerItems()
	var m tea.Model = NewExplorationListModel(items)

	m, _ = press(m, "down")
	m, _ = press(m, "j")
	m, _ = press(m, "j") // clamped at the last row
	m, _ = press(m, "up")
	m, cmd := press(m, "enter")

	got := m.(ExplorationListModel)
	if got.Selected != items[1] {
		t.Errorf("selected %v, want %q", got.Selected, items[1].Name)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestExplorationListModel_Quit(t *testing.T) {
	var m tea.Model = NewExplorationListModel(pickerItems())
	m, cmd := press(m, "q")

	if m.(ExplorationListModel).Selected != nil {
		t.Error("quitting selected an exploration")
	}
	if cmd == nil {
		t.Error("q should quit the program")
	}
}

func TestExplorationListModel_Scrolls(t *testing.T) {
	items := pickerItems()
	m := NewExplorationListModel(items)
	m.Height = 1

	next, _ := press(m, "down")
	next, _ = press(next, "down")
	got := next.(ExplorationListModel)
	if got.Offset != 2 || got.Cursor != 2 {
		t.Errorf("cursor/offset = %d/%d, want 2/2", got.Cursor, got.Offset)
	}

	view := got.View()
	if !strings.Contains(view, "Rug pull") || strings.Contains(view, "Phishing") {
		t.Errorf("view does not show only the scrolled row:\n%s", view)
	}
	if !strings.Contains(view, "[3/3]") {
		t.Errorf("view missing position indicator:\n%s", view)
	}
}
