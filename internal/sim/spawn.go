package sim

import (
	"math/rand"

	"ridgeworld/server/internal/geom"
)

// randomSpawnPoint picks a uniform point inside rect, grounded on
// internal/world/random.go's RandomFloat/CentralTopLeftRange idiom for
// RNG-injected placement, simplified to a flat rectangle since spec.md
// does not call for the teacher's central-region bias.
func randomSpawnPoint(rng *rand.Rand, rect geom.Rect) geom.Vec2 {
	if rng == nil {
		return rect.Center
	}
	x := rect.Center.X - rect.Extents.X + rng.Float64()*2*rect.Extents.X
	y := rect.Center.Y - rect.Extents.Y + rng.Float64()*2*rect.Extents.Y
	return geom.Vec2{X: x, Y: y}
}
