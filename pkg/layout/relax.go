package layout

import (
	"math"
	"math/rand/v2"
)

// tolerance absorbs floating-point error when a pair has just been pushed to
// exactly the separation distance.
const tolerance = 1e-9

// relax pushes apart every pair of nodes closer than cfg.MinSeparation.
//
// Each pass visits all pairs in ids order. A pair at distance d < sep moves
// apart along its connecting line by (sep-d)/d of the offset, split evenly
// between the two nodes. Pinned nodes never move; when one side is pinned the
// other takes the whole push. Coincident nodes separate in a random direction.
//
// relax returns the number of passes executed and whether the final state is
// free of violations. It stops early after a pass that moved nothing.
func relax(cfg Config, ids []string, pinned map[string]bool, pos Positions, rng *rand.Rand) (int, bool) {
	sep := cfg.MinSeparation
	passes := 0
	for passes < cfg.MaxIterations {
		passes++
		if !relaxPass(sep, ids, pinned, pos, rng) {
			return passes, true
		}
	}
	return passes, !overlapping(sep, ids, pinned, pos)
}

// relaxPass runs one sweep and reports whether any pair was adjusted.
func relaxPass(sep float64, ids []string, pinned map[string]bool, pos Positions, rng *rand.Rand) bool {
	moved := false
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := ids[i], ids[j]
			if pinned[a] && pinned[b] {
				continue
			}
			pa, pb := pos[a], pos[b]
			dx, dy := pb.X-pa.X, pb.Y-pa.Y
			d := math.Hypot(dx, dy)
			if d >= sep-tolerance {
				continue
			}
			moved = true

			if d == 0 {
				theta := 2 * math.Pi * rng.Float64()
				dx, dy, d = math.Cos(theta)*tolerance, math.Sin(theta)*tolerance, tolerance
			}
			scale := (sep - d) / d
			px, py := dx*scale, dy*scale

			switch {
			case pinned[a]:
				pos[b] = Point{X: pb.X + px, Y: pb.Y + py}
			case pinned[b]:
				pos[a] = Point{X: pa.X - px, Y: pa.Y - py}
			default:
				pos[a] = Point{X: pa.X - px/2, Y: pa.Y - py/2}
				pos[b] = Point{X: pb.X + px/2, Y: pb.Y + py/2}
			}
		}
	}
	return moved
}

// overlapping reports whether any movable pair is still under sep.
func overlapping(sep float64, ids []string, pinned map[string]bool, pos Positions) bool {
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if pinned[ids[i]] && pinned[ids[j]] {
				continue
			}
			if pos[ids[i]].Dist(pos[ids[j]]) < sep-tolerance {
				return true
			}
		}
	}
	return false
}
