package layout

import (
	"math"
	"math/rand/v2"
	"slices"
)

// ringRadius returns the radius for a ring holding n nodes at the given layer.
// The radius grows with |layer| and never drops below the circumference needed
// to keep n evenly spaced nodes cfg.MinSeparation apart.
func ringRadius(cfg Config, minDim float64, layer, n int) float64 {
	base := minDim * (cfg.RingBase + cfg.RingStep*math.Abs(float64(layer)))
	need := float64(n) * cfg.MinSeparation / (2 * math.Pi)
	return math.Max(base, need)
}

// placeRings assigns a position to every ID in pending, grouped by layer.
//
// On a layer with no placed nodes, the i-th of n pending nodes sits at angle
// 2πi/n. On a layer that already has placed nodes, each pending node takes the
// middle of the widest free arc, so an incremental update lands between its
// neighbours instead of on top of them. Both cases add angle and radius jitter.
func placeRings(cfg Config, vp Viewport, ids, pending []string, layers map[string]int, pos Positions, rng *rand.Rand) {
	center := vp.Center()
	minDim := vp.MinDim()
	angleJitter := cfg.AngleJitter * math.Pi / 180

	groups := make(map[int][]string)
	for _, id := range pending {
		groups[layers[id]] = append(groups[layers[id]], id)
	}
	occupied := make(map[int][]float64)
	for _, id := range ids {
		p, ok := pos[id]
		if !ok {
			continue
		}
		layer, ok := layers[id]
		if !ok || layer == 0 || groups[layer] == nil {
			continue
		}
		if p.Dist(center) > tolerance {
			occupied[layer] = append(occupied[layer], math.Atan2(p.Y-center.Y, p.X-center.X))
		}
	}

	order := make([]int, 0, len(groups))
	for layer := range groups {
		order = append(order, layer)
	}
	slices.Sort(order)

	for _, layer := range order {
		group := groups[layer]
		taken := occupied[layer]
		n := len(group)
		r := ringRadius(cfg, minDim, layer, n+len(taken))

		for i, id := range group {
			var theta float64
			if len(taken) == 0 {
				theta = 2 * math.Pi * float64(i) / float64(n)
			} else {
				theta = widestGap(taken)
				taken = append(taken, theta)
			}
			theta += jitter(rng, angleJitter)
			rr := r * (1 + jitter(rng, cfg.RadiusJitter))
			pos[id] = Point{
				X: center.X + rr*math.Cos(theta),
				Y: center.Y + rr*math.Sin(theta),
			}
		}
	}
}

// widestGap returns the angle in the middle of the largest arc between
// consecutive angles. angles must be non-empty.
func widestGap(angles []float64) float64 {
	sorted := make([]float64, len(angles))
	for i, a := range angles {
		sorted[i] = normAngle(a)
	}
	slices.Sort(sorted)

	best, bestGap := sorted[0], 0.0
	for i, a := range sorted {
		next := sorted[(i+1)%len(sorted)]
		gap := next - a
		if gap <= 0 {
			gap += 2 * math.Pi
		}
		if gap > bestGap+tolerance {
			best, bestGap = a, gap
		}
	}
	return best + bestGap/2
}

func normAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// scatter places each pending node uniformly inside a disk around the centre.
func scatter(cfg Config, vp Viewport, pending []string, pos Positions, rng *rand.Rand) {
	center := vp.Center()
	radius := vp.MinDim() * cfg.ScatterRatio
	for _, id := range pending {
		r := radius * math.Sqrt(rng.Float64())
		theta := 2 * math.Pi * rng.Float64()
		pos[id] = Point{
			X: center.X + r*math.Cos(theta),
			Y: center.Y + r*math.Sin(theta),
		}
	}
}

// jitter returns a uniform value in [-amp, amp].
func jitter(rng *rand.Rand, amp float64) float64 {
	if amp == 0 {
		return 0
	}
	return (rng.Float64()*2 - 1) * amp
}
