package pipeline

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/sytelus/highpoint/pkg/model"
	"github.com/sytelus/highpoint/pkg/terrain"
)

func flatGrid(t *testing.T, rows, cols int, cellSize, elevation float64) *terrain.TerrainGrid {
	t.Helper()
	e := make([][]float64, rows)
	for r := range e {
		e[r] = make([]float64, cols)
		for c := range e[r] {
			e[r][c] = elevation
		}
	}
	g, err := terrain.NewTerrainGrid(e, 0, 0, cellSize)
	if err != nil {
		t.Fatalf("NewTerrainGrid: %v", err)
	}
	return g
}

func conicalHill(t *testing.T, rows, cols int, cellSize, peak, slopePerM, centerOffsetM float64) *terrain.TerrainGrid {
	t.Helper()
	centerR, centerC := rows/2, cols/2+int(centerOffsetM/cellSize)
	e := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		e[r] = make([]float64, cols)
		for c := 0; c < cols; c++ {
			dx := float64(c-centerC) * cellSize
			dy := float64(r-rows/2) * cellSize
			dist := math.Hypot(dx, dy)
			e[r][c] = peak - dist*slopePerM
		}
	}
	g, err := terrain.NewTerrainGrid(e, 0, 0, cellSize)
	if err != nil {
		t.Fatalf("NewTerrainGrid: %v", err)
	}
	return g
}

func baseReq() model.VisibilityRequest {
	return model.VisibilityRequest{
		ObserverEyeHeightM:  1.8,
		MinVisibilityM:      1609.34,
		MinFovDeg:           30,
		AzimuthDeg:          0,
		AzimuthToleranceDeg: 180,
		RaysFullCircle:      36,
		MaxVisibilityM:      2000,
		ClusterGridM:        250,
		ResolutionScale:     1,
		WalkingSpeedKmh:     4.8,
		DrivingSpeedKmh:     50,
		MaxWalkMinutes:      15,
		ResultsLimit:        10,
	}
}

// S1: flat plain yields no local maxima -> EmptyPipeline(candidates).
func TestRun_FlatPlain_EmptyAtCandidates(t *testing.T) {
	g := flatGrid(t, 201, 201, 10, 100)
	out, err := Run(context.Background(), g, nil, baseReq())
	var emptyErr *EmptyPipelineError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("expected *EmptyPipelineError, got %v", err)
	}
	if emptyErr.Stage != model.StageCandidates {
		t.Errorf("expected Stage=%q, got %q", model.StageCandidates, emptyErr.Stage)
	}
	if out.EmptyStage != model.StageCandidates {
		t.Errorf("expected EmptyStage=%q, got %q", model.StageCandidates, out.EmptyStage)
	}
}

// S2-ish: a single conical hill with no obstruction and a nearby road
// survives all stages and produces one ranked result.
func TestRun_SingleHill_ProducesResult(t *testing.T) {
	g := conicalHill(t, 201, 201, 10, 200, 0.2, 0)
	roads := []model.RoadSegment{
		{Points: []model.Point{{X: 0, Y: 0}, {X: 2000, Y: 0}}},
	}
	out, err := Run(context.Background(), g, roads, baseReq())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.EmptyStage != "" {
		t.Fatalf("expected a result, got EmptyStage=%q", out.EmptyStage)
	}
	if len(out.Results) == 0 {
		t.Fatal("expected at least one scored candidate")
	}
}

// S6: peak far from the only road is rejected at drivability.
func TestRun_FarFromRoad_EmptyAtDrivability(t *testing.T) {
	g := conicalHill(t, 201, 201, 10, 200, 0.2, 0)
	roads := []model.RoadSegment{
		{Points: []model.Point{{X: 5000, Y: 5000}, {X: 6000, Y: 6000}}},
	}
	req := baseReq()
	req.MaxWalkMinutes = 1
	out, err := Run(context.Background(), g, roads, req)
	var emptyErr *EmptyPipelineError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("expected *EmptyPipelineError, got %v", err)
	}
	if emptyErr.Stage != model.StageDrivability {
		t.Errorf("expected Stage=%q, got %q", model.StageDrivability, emptyErr.Stage)
	}
	if out.EmptyStage != model.StageDrivability {
		t.Errorf("expected EmptyStage=%q, got %q", model.StageDrivability, out.EmptyStage)
	}
}

func TestRun_RejectsInvalidInput(t *testing.T) {
	g := flatGrid(t, 21, 21, 10, 100)
	req := baseReq()
	req.RaysFullCircle = 2
	_, err := Run(context.Background(), g, nil, req)
	if err == nil {
		t.Fatal("expected InvalidInputError")
	}
}

func TestRun_RespectsCancellation(t *testing.T) {
	g := conicalHill(t, 201, 201, 10, 200, 0.2, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, g, nil, baseReq())
	if err != model.ErrCancelled {
		t.Errorf("expected ErrCancelled, got %v", err)
	}
}

func TestRun_Deterministic(t *testing.T) {
	g := conicalHill(t, 201, 201, 10, 200, 0.2, 0)
	roads := []model.RoadSegment{
		{Points: []model.Point{{X: 0, Y: 0}, {X: 2000, Y: 0}}},
	}
	req := baseReq()

	out1, err := Run(context.Background(), g, roads, req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out2, err := Run(context.Background(), g, roads, req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(out1.Results) != len(out2.Results) {
		t.Fatalf("non-deterministic result count: %d vs %d", len(out1.Results), len(out2.Results))
	}
	for i := range out1.Results {
		if out1.Results[i] != out2.Results[i] {
			t.Errorf("non-deterministic result at %d: %+v vs %+v", i, out1.Results[i], out2.Results[i])
		}
	}
}
