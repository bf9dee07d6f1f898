package layout

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestRelax_PairSplitsPushEvenly(t *testing.T) {
	cfg := DefaultConfig()
	pos := Positions{"a": {X: 0, Y: 0}, "b": {X: 50, Y: 0}}

	passes, converged := relax(cfg, []string{"a", "b"}, nil, pos, rand.New(rand.NewPCG(1, 1)))

	if !converged {
		t.Fatal("two free nodes should converge")
	}
	if passes != 2 {
		t.Errorf("passes = %d, want 2 (one push, one clean pass)", passes)
	}
	if pos["a"] != (Point{X: -25, Y: 0}) || pos["b"] != (Point{X: 75, Y: 0}) {
		t.Errorf("pos = %v, want a=(-25,0) b=(75,0)", pos)
	}
}

func TestRelax_PinnedNodeTakesNoPush(t *testing.T) {
	cfg := DefaultConfig()
	pos := Positions{"root": {X: 0, Y: 0}, "a": {X: 0, Y: 30}}

	_, converged := relax(cfg, []string{"root", "a"}, map[string]bool{"root": true}, pos, rand.New(rand.NewPCG(1, 1)))

	if !converged {
		t.Fatal("expected convergence")
	}
	if pos["root"] != (Point{}) {
		t.Errorf("pinned node moved to %+v", pos["root"])
	}
	if math.Abs(pos["a"].Y-100) > eps || math.Abs(pos["a"].X) > eps {
		t.Errorf("a = %+v, want (0,100)", pos["a"])
	}
}

func TestRelax_CoincidentNodesSeparate(t *testing.T) {
	cfg := DefaultConfig()
	pos := Positions{"a": {X: 5, Y: 5}, "b": {X: 5, Y: 5}}

	relax(cfg, []string{"a", "b"}, nil, pos, rand.New(rand.NewPCG(9, 9)))

	if d := pos["a"].Dist(pos["b"]); d < MinSeparation-eps {
		t.Errorf("dist = %.4f, want >= %.0f", d, MinSeparation)
	}
}

func TestRelax_BothPinnedIgnored(t *testing.T) {
	cfg := DefaultConfig()
	pos := Positions{"m1": {X: 0, Y: 0}, "m2": {X: 1, Y: 0}}
	pinned := map[string]bool{"m1": true, "m2": true}

	passes, converged := relax(cfg, []string{"m1", "m2"}, pinned, pos, rand.New(rand.NewPCG(1, 1)))

	if passes != 1 || !converged {
		t.Errorf("relax = (%d, %v), want (1, true)", passes, converged)
	}
	if pos["m2"] != (Point{X: 1, Y: 0}) {
		t.Errorf("pinned pair moved: %v", pos)
	}
}

func TestRelax_CapReportsNonConvergence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxIterations = 1
	pos := Positions{}
	ids := []string{"a", "b", "c", "d"}
	for _, id := range ids {
		pos[id] = Point{X: 0, Y: 0}
	}

	passes, converged := relax(cfg, ids, nil, pos, rand.New(rand.NewPCG(3, 3)))

	if passes != 1 {
		t.Errorf("passes = %d, want 1", passes)
	}
	if converged && overlapping(cfg.MinSeparation, ids, nil, pos) {
		t.Error("reported convergence while pairs still overlap")
	}
}

func TestRingRadius(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name   string
		minDim float64
		layer  int
		n      int
		want   float64
	}{
		{"base dominates", 600, 1, 3, 150},
		{"negative layer uses magnitude", 600, -2, 1, 210},
		{"crowded ring grows", 600, 1, 20, 20 * 100 / (2 * math.Pi)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ringRadius(cfg, tt.minDim, tt.layer, tt.n); math.Abs(got-tt.want) > eps {
				t.Errorf("ringRadius() = %.4f, want %.4f", got, tt.want)
			}
		})
	}
}

func TestWidestGap(t *testing.T) {
	tests := []struct {
		name   string
		angles []float64
		want   float64
	}{
		{"single angle opposite", []float64{0}, math.Pi},
		{"triangle first gap", []float64{0, 2 * math.Pi / 3, 4 * math.Pi / 3}, math.Pi / 3},
		{"wraps around", []float64{-math.Pi / 2, math.Pi / 2, math.Pi / 4}, math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normAngle(widestGap(tt.angles))
			if math.Abs(got-normAngle(tt.want)) > 1e-9 {
				t.Errorf("widestGap(%v) = %.4f, want %.4f", tt.angles, got, tt.want)
			}
		})
	}
}
