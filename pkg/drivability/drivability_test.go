package drivability

import (
	"math"
	"testing"

	"github.com/sytelus/highpoint/pkg/model"
)

func req() model.VisibilityRequest {
	return model.VisibilityRequest{
		WalkingSpeedKmh: 4.8,
		DrivingSpeedKmh: 50,
		MaxWalkMinutes:  15,
	}
}

// S6: a peak 2000m from the only road, at 4.8 km/h walking speed, exceeds
// a 15-minute walk budget and must be rejected.
func TestScore_RejectsOverWalkBudget(t *testing.T) {
	vc := model.VisibleCandidate{Candidate: model.TerrainCandidate{X: 0, Y: 0}}
	roads := []model.RoadSegment{
		{Points: []model.Point{{X: 2000, Y: 0}, {X: 2000, Y: 1000}}},
	}
	access, ok := Score(vc, roads, req())
	if ok {
		t.Fatalf("expected rejection, walk_minutes=%v", access.WalkMinutes)
	}
	if access.WalkMinutes <= req().MaxWalkMinutes {
		t.Errorf("expected walk_minutes > budget, got %v", access.WalkMinutes)
	}
}

func TestScore_AcceptsWithinBudget(t *testing.T) {
	vc := model.VisibleCandidate{Candidate: model.TerrainCandidate{X: 0, Y: 0}}
	roads := []model.RoadSegment{
		{Points: []model.Point{{X: 100, Y: 0}, {X: 100, Y: 1000}}},
	}
	access, ok := Score(vc, roads, req())
	if !ok {
		t.Fatalf("expected candidate to be accepted, walk_minutes=%v", access.WalkMinutes)
	}
	if math.Abs(access.DistanceM-100) > 1e-9 {
		t.Errorf("expected distance 100, got %v", access.DistanceM)
	}
}

func TestScore_RejectsOverDriveBudget(t *testing.T) {
	r := req()
	r.HasMaxDriveMinutes = true
	r.MaxDriveMinutes = 0.01

	vc := model.VisibleCandidate{Candidate: model.TerrainCandidate{X: 0, Y: 0}}
	roads := []model.RoadSegment{
		{Points: []model.Point{{X: 100, Y: 0}, {X: 100, Y: 1000}}},
	}
	_, ok := Score(vc, roads, r)
	if ok {
		t.Fatal("expected rejection over drive budget")
	}
}

func TestScore_NoRoadsRejects(t *testing.T) {
	vc := model.VisibleCandidate{Candidate: model.TerrainCandidate{X: 0, Y: 0}}
	_, ok := Score(vc, nil, req())
	if ok {
		t.Fatal("expected rejection with no roads")
	}
}

func TestScore_TieBreakFirstSegmentWins(t *testing.T) {
	vc := model.VisibleCandidate{Candidate: model.TerrainCandidate{X: 0, Y: 5}}
	roads := []model.RoadSegment{
		{Points: []model.Point{{X: 10, Y: 0}, {X: 10, Y: 10}}},
		{Points: []model.Point{{X: -10, Y: 0}, {X: -10, Y: 10}}},
	}
	access, ok := Score(vc, roads, req())
	if !ok {
		t.Fatalf("expected acceptance")
	}
	if access.X != 10 {
		t.Errorf("expected first road segment to win the tie, got access.X=%v", access.X)
	}
}
