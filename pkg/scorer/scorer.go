// Package scorer implements the Composite Ranker: it turns each surviving
// candidate's metrics into a 0-1 score, sorts descending, and returns the
// top results_limit entries.
package scorer

import (
	"math"
	"sort"

	"github.com/sytelus/highpoint/pkg/model"
)

// candidate bundles the inputs Score needs: the visible candidate plus the
// access point the drivability stage produced for it.
type candidate struct {
	vc     model.VisibleCandidate
	access model.AccessPoint
}

// Rank scores every (visible candidate, access point) pair, sorts
// descending by score with the spec's tie-break rule, and returns the
// first req.ResultsLimit entries.
func Rank(visible []model.VisibleCandidate, access []model.AccessPoint, req model.VisibilityRequest) []model.ScoredCandidate {
	pairs := make([]candidate, len(visible))
	for i := range visible {
		pairs[i] = candidate{vc: visible[i], access: access[i]}
	}

	scored := make([]model.ScoredCandidate, len(pairs))
	for i, p := range pairs {
		scored[i] = score(p.vc, p.access, req)
	}

	sort.Slice(scored, func(i, j int) bool {
		return better(scored[i], scored[j])
	})

	if req.ResultsLimit > 0 && len(scored) > req.ResultsLimit {
		scored = scored[:req.ResultsLimit]
	}
	return scored
}

// score computes the weighted composite score exactly as the formula
// specifies: 0.40*dist + 0.30*fov + 0.20*walk + 0.10*elevation.
func score(vc model.VisibleCandidate, access model.AccessPoint, req model.VisibilityRequest) model.ScoredCandidate {
	c := vc.Candidate
	m := vc.Metrics

	requiredM := req.MinVisibilityM
	distScore := math.Min(1, m.MaxDistanceM/(requiredM*1.5))
	fovScore := math.Min(1, m.FovDeg/math.Max(1, req.MinFovDeg))
	walkPenalty := math.Max(0, 1-access.WalkMinutes/req.MaxWalkMinutes)
	elevBonus := math.Tanh(c.ElevationM / 500)

	total := 0.40*distScore + 0.30*fovScore + 0.20*walkPenalty + 0.10*elevBonus

	return model.ScoredCandidate{
		Row:             c.Row,
		Col:             c.Col,
		X:               c.X,
		Y:               c.Y,
		ElevationM:      c.ElevationM,
		MaxDistanceM:    m.MaxDistanceM,
		MeanDistanceM:   m.MeanDistanceM,
		MedianDistanceM: m.MedianDistanceM,
		FovDeg:          m.FovDeg,
		ClearedRayCount: m.ClearedRayCount,

		AccessX:              access.X,
		AccessY:              access.Y,
		DistanceM:            access.DistanceM,
		WalkMinutes:          access.WalkMinutes,
		DriveMinutesEstimate: access.DriveMinutesEstimate,

		Score: total,
	}
}

// better reports whether a ranks ahead of b: greater score first, ties
// broken by greater max_distance_m, then greater elevation_m, then lower
// (row, col).
func better(a, b model.ScoredCandidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.MaxDistanceM != b.MaxDistanceM {
		return a.MaxDistanceM > b.MaxDistanceM
	}
	if a.ElevationM != b.ElevationM {
		return a.ElevationM > b.ElevationM
	}
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}
