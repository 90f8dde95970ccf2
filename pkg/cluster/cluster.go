// Package cluster implements the Cluster Reducer: it bins candidates into
// a fixed-size square grid and keeps one survivor per occupied bin. This
// deliberately does not use hex-grid indexing; binning is axis-aligned
// square cells only.
package cluster

import (
	"math"

	"github.com/sytelus/highpoint/pkg/model"
)

type binKey struct {
	bx, by int
}

// Reduce bins candidates by floor(x/gridM), floor(y/gridM) and keeps the
// highest-elevation survivor per bin. Ties are broken by greater
// max_distance_m, then lower (row, col). Output order is unspecified.
func Reduce(candidates []model.VisibleCandidate, gridM float64) []model.VisibleCandidate {
	bins := make(map[binKey]model.VisibleCandidate)

	for _, vc := range candidates {
		key := binKey{
			bx: int(math.Floor(vc.Candidate.X / gridM)),
			by: int(math.Floor(vc.Candidate.Y / gridM)),
		}
		existing, ok := bins[key]
		if !ok || beats(vc, existing) {
			bins[key] = vc
		}
	}

	out := make([]model.VisibleCandidate, 0, len(bins))
	for _, vc := range bins {
		out = append(out, vc)
	}
	return out
}

// beats reports whether candidate a should replace incumbent b as the
// bin's survivor.
func beats(a, b model.VisibleCandidate) bool {
	if a.Candidate.ElevationM != b.Candidate.ElevationM {
		return a.Candidate.ElevationM > b.Candidate.ElevationM
	}
	if a.Metrics.MaxDistanceM != b.Metrics.MaxDistanceM {
		return a.Metrics.MaxDistanceM > b.Metrics.MaxDistanceM
	}
	if a.Candidate.Row != b.Candidate.Row {
		return a.Candidate.Row < b.Candidate.Row
	}
	return a.Candidate.Col < b.Candidate.Col
}
