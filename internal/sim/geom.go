package sim

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"exposuresim/internal/util"
)

// polarOffset turns an angle in half-turns and a magnitude into a
// displacement; each component is truncated toward zero.
func polarOffset(halfTurns float64, magnitude int) orb.Point {
	r := float64(magnitude)
	return orb.Point{
		math.Trunc(math.Cos(halfTurns*math.Pi) * r),
		math.Trunc(math.Sin(halfTurns*math.Pi) * r),
	}
}

// randomOffset draws the angle first, then a magnitude in [lo, hi].
// Uniform radius over a disk concentrates points near the centre.
func randomOffset(rng util.Rand, lo, hi int) orb.Point {
	theta := rng.Float64() * 2
	return polarOffset(theta, util.IntBetween(rng, lo, hi))
}

func distance(a, b orb.Point) float64 {
	return planar.Distance(a, b)
}
