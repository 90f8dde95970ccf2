package geo

import "math"

// NearestPointOnSegment returns the closest point on segment a-b to p,
// clamped to the endpoints, and the distance to it. This is the projected
// analogue of the polygon-boundary projection the teacher's country
// service used for point-to-geometry distance, adapted here from closed
// rings to open road polylines.
func NearestPointOnSegment(p, a, b Point) (closest Point, distance float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y

	if dx == 0 && dy == 0 {
		return a, Distance(p, a)
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / (dx*dx + dy*dy)
	switch {
	case t < 0:
		return a, Distance(p, a)
	case t > 1:
		return b, Distance(p, b)
	default:
		closest = Point{X: a.X + t*dx, Y: a.Y + t*dy}
		return closest, Distance(p, closest)
	}
}

// NearestPointOnPolyline scans every segment of points (a polyline with at
// least two points) and returns the closest point to p across all of them,
// along with its distance. Ties are broken by the segment encountered
// first in input order, matching a strict linear scan.
func NearestPointOnPolyline(p Point, points []Point) (closest Point, distance float64) {
	distance = math.MaxFloat64
	for i := 0; i < len(points)-1; i++ {
		c, d := NearestPointOnSegment(p, points[i], points[i+1])
		if d < distance {
			distance = d
			closest = c
		}
	}
	return closest, distance
}
