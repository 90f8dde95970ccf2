// Package geo provides the projected-CRS primitives the pipeline stages
// share: a flat (x, y) point in meters and Euclidean distance between them.
// All spatial quantities in this package live in the single projected CRS
// the caller reprojects into upstream; there is no lat/lon here.
package geo

import "math"

// Point is a 2-D coordinate in the run's projected CRS, meters.
type Point struct {
	X, Y float64
}

// Distance returns the Euclidean distance between two projected points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
