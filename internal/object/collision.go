package object

import "math"

// CollidersIntersect is the narrow-phase collision test between two
// records, independent of the quadtree broad phase. Per spec.md §4.2 this
// is a pure function: no side effects, no spatial index lookups.
func CollidersIntersect(a, b Record) bool {
	ae := a.ColliderExtents()
	be := b.ColliderExtents()

	if a.Collider.Shape == ColliderCircle && b.Collider.Shape == ColliderCircle {
		dx := a.Position.X - b.Position.X
		dy := a.Position.Y - b.Position.Y
		radiusSum := ae.X + be.X
		return dx*dx+dy*dy <= radiusSum*radiusSum
	}

	if a.Collider.Shape == ColliderCircle || b.Collider.Shape == ColliderCircle {
		circle, rect := a, b
		circleExt, rectExt := ae, be
		if b.Collider.Shape == ColliderCircle {
			circle, rect = b, a
			circleExt, rectExt = be, ae
		}
		return circleRectOverlap(circle.Position.X, circle.Position.Y, circleExt.X, rect.Position.X, rect.Position.Y, rectExt.X, rectExt.Y)
	}

	// Rect vs rect: standard AABB overlap test.
	return math.Abs(a.Position.X-b.Position.X) <= ae.X+be.X &&
		math.Abs(a.Position.Y-b.Position.Y) <= ae.Y+be.Y
}

// circleRectOverlap tests a circle (cx,cy,radius) against an axis-aligned
// rect centered at (rx,ry) with half-extents (rhw,rhh).
func circleRectOverlap(cx, cy, radius, rx, ry, rhw, rhh float64) bool {
	closestX := clamp(cx, rx-rhw, rx+rhw)
	closestY := clamp(cy, ry-rhh, ry+rhh)
	dx := cx - closestX
	dy := cy - closestY
	return dx*dx+dy*dy <= radius*radius
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
