// Package drivability implements the Drivability Scorer: for each
// surviving candidate it finds the nearest point on any road segment,
// derives walking and driving time estimates, and rejects candidates over
// the configured thresholds.
package drivability

import (
	"github.com/sytelus/highpoint/pkg/geo"
	"github.com/sytelus/highpoint/pkg/model"
)

// drivingSinuosity is the fixed detour-factor constant this design uses
// in place of real road routing (spec non-goal).
const drivingSinuosity = 1.35

// Score computes the AccessPoint for a candidate against roads and reports
// whether it survives the walk/drive thresholds in req.
func Score(vc model.VisibleCandidate, roads []model.RoadSegment, req model.VisibilityRequest) (model.AccessPoint, bool) {
	p := geo.Point{X: vc.Candidate.X, Y: vc.Candidate.Y}

	var access model.AccessPoint
	distance := -1.0

	for _, road := range roads {
		points := make([]geo.Point, len(road.Points))
		for i, rp := range road.Points {
			points[i] = geo.Point{X: rp.X, Y: rp.Y}
		}
		if len(points) < 2 {
			continue
		}
		closest, d := geo.NearestPointOnPolyline(p, points)
		if distance < 0 || d < distance {
			distance = d
			access = model.AccessPoint{X: closest.X, Y: closest.Y, DistanceM: d}
		}
	}

	if distance < 0 {
		return model.AccessPoint{}, false
	}

	access.WalkMinutes = (access.DistanceM / 1000) / req.WalkingSpeedKmh * 60
	access.DriveMinutesEstimate = (access.DistanceM * drivingSinuosity / 1000) / req.DrivingSpeedKmh * 60

	if access.WalkMinutes > req.MaxWalkMinutes {
		return access, false
	}
	if req.HasMaxDriveMinutes && access.DriveMinutesEstimate > req.MaxDriveMinutes {
		return access, false
	}

	return access, true
}
