package cluster

import (
	"testing"

	"github.com/sytelus/highpoint/pkg/model"
)

func vc(row, col int, x, y, elev float64) model.VisibleCandidate {
	return model.VisibleCandidate{
		Candidate: model.TerrainCandidate{Row: row, Col: col, X: x, Y: y, ElevationM: elev},
	}
}

// S5: two hills 100m apart with a 250m grid fall in the same bin; the
// higher peak must survive.
func TestReduce_TwoCloseHills_HigherSurvives(t *testing.T) {
	candidates := []model.VisibleCandidate{
		vc(10, 10, 100, 100, 250),
		vc(10, 20, 200, 100, 300),
	}
	out := Reduce(candidates, 250)
	if len(out) != 1 {
		t.Fatalf("expected exactly one survivor, got %d", len(out))
	}
	if out[0].Candidate.ElevationM != 300 {
		t.Errorf("expected the higher peak to survive, got elevation %v", out[0].Candidate.ElevationM)
	}
}

func TestReduce_DistantHills_BothSurvive(t *testing.T) {
	candidates := []model.VisibleCandidate{
		vc(10, 10, 100, 100, 250),
		vc(10, 20, 10000, 100, 300),
	}
	out := Reduce(candidates, 250)
	if len(out) != 2 {
		t.Errorf("expected both candidates to survive in separate bins, got %d", len(out))
	}
}

func TestReduce_TieBreaksByMaxDistance(t *testing.T) {
	a := vc(5, 5, 10, 10, 200)
	a.Metrics.MaxDistanceM = 500
	b := vc(3, 3, 10, 10, 200)
	b.Metrics.MaxDistanceM = 1000

	out := Reduce([]model.VisibleCandidate{a, b}, 250)
	if len(out) != 1 {
		t.Fatalf("expected one survivor, got %d", len(out))
	}
	if out[0].Candidate.Row != 3 {
		t.Errorf("expected candidate with greater max_distance_m to win, got row %d", out[0].Candidate.Row)
	}
}
