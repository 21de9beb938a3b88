// Package geometry provides the planar predicates used by the point quadtree.
// All tests are closed: boundaries count as inside. Distances go through
// math.Hypot so squares never overflow or underflow.
package geometry

import "math"

// CircleIntersectsRect returns true if the closed disk at (cx,cy) with
// radius cr shares at least one point with the closed rectangle whose
// corners are (x1,y1) and (x2,y2).
func CircleIntersectsRect(cx, cy, cr, x1, y1, x2, y2 float64) bool {
	if cr < 0 {
		return false
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return math.Hypot(cx-clamp(cx, x1, x2), cy-clamp(cy, y1, y2)) <= cr
}

// PointInCircle returns true if (px,py) lies in the closed disk at (cx,cy)
// with radius cr.
func PointInCircle(px, py, cx, cy, cr float64) bool {
	if cr < 0 {
		return false
	}
	return math.Hypot(px-cx, py-cy) <= cr
}

// Distance is the euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
