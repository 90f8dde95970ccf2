// Package pipeline implements the Pipeline Orchestrator: it sequences
// Candidate Detector -> Visibility Tracer -> Cluster Reducer ->
// Drivability Scorer -> Composite Ranker and assembles the output record
// list, short-circuiting to an EmptyPipeline outcome when a stage yields
// zero survivors.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sytelus/highpoint/pkg/cluster"
	"github.com/sytelus/highpoint/pkg/drivability"
	"github.com/sytelus/highpoint/pkg/logging"
	"github.com/sytelus/highpoint/pkg/model"
	"github.com/sytelus/highpoint/pkg/scorer"
	"github.com/sytelus/highpoint/pkg/terrain"
	"github.com/sytelus/highpoint/pkg/visibility"
)

// defaultNeighborhoodRadiusCells is the candidate-detector window radius
// (k) used when the caller does not need a different one; spec default.
const defaultNeighborhoodRadiusCells = 3

// Output is the result of a pipeline run: the ranked candidates, plus
// which stage (if any) emptied the pipeline.
type Output struct {
	RunID string

	Results []model.ScoredCandidate

	// EmptyStage is one of model.Stage* when the run produced zero
	// survivors at that stage; empty string otherwise.
	EmptyStage string

	CandidateCount int
	VisibleCount   int
	ClusteredCount int
	DrivableCount  int
}

// Run sequences CD -> VT -> CR -> DS -> RK over g and roads under req.
// It returns model.ErrInvalidInput-wrapping errors for malformed input,
// model.ErrCancelled if ctx is cancelled at a stage boundary or between
// candidates in VT, a *model.InternalError if a terrain sample violates
// the non-finite-elevation invariant, and a non-nil *model.EmptyPipelineError
// alongside a non-nil *Output (EmptyStage set, counts populated up to the
// point of emptying) when a stage discarded every survivor. Callers that
// want to treat an empty run as a non-fatal outcome should errors.As the
// returned error into *model.EmptyPipelineError rather than treating any
// error as fatal.
func Run(ctx context.Context, g *terrain.TerrainGrid, roads []model.RoadSegment, req model.VisibilityRequest) (*Output, error) {
	if err := validateRequest(g, req); err != nil {
		return nil, err
	}

	out := &Output{RunID: uuid.New().String()}
	logger := slog.Default().With("run_id", out.RunID)

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	candidates, err := terrain.DetectCandidates(g, defaultNeighborhoodRadiusCells, minCandidateElevation, req.ResolutionScale)
	if err != nil {
		return nil, err
	}
	out.CandidateCount = len(candidates)
	logger.Debug("stage candidates complete", "count", len(candidates))
	if len(candidates) == 0 {
		out.EmptyStage = model.StageCandidates
		return out, &model.EmptyPipelineError{Stage: model.StageCandidates}
	}

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	tracer := visibility.NewTracer()
	visible := make([]model.VisibleCandidate, 0, len(candidates))
	for _, c := range candidates {
		if err := checkCancelled(ctx); err != nil {
			return nil, err
		}
		metrics, ok, err := tracer.Trace(g, c, req)
		if err != nil {
			return nil, err
		}
		logging.Trace(logger, "candidate traced", "row", c.Row, "col", c.Col, "cleared", ok, "max_distance_m", metrics.MaxDistanceM)
		if !ok {
			continue
		}
		visible = append(visible, model.VisibleCandidate{Candidate: c, Metrics: metrics})
	}
	out.VisibleCount = len(visible)
	logger.Debug("stage visibility complete", "count", len(visible), "discarded", len(candidates)-len(visible))
	if len(visible) == 0 {
		out.EmptyStage = model.StageVisibility
		return out, &model.EmptyPipelineError{Stage: model.StageVisibility}
	}

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	clustered := cluster.Reduce(visible, req.ClusterGridM)
	out.ClusteredCount = len(clustered)
	logger.Debug("stage cluster complete", "count", len(clustered), "discarded", len(visible)-len(clustered))
	if len(clustered) == 0 {
		out.EmptyStage = model.StageCluster
		return out, &model.EmptyPipelineError{Stage: model.StageCluster}
	}

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	drivableCandidates := make([]model.VisibleCandidate, 0, len(clustered))
	drivableAccess := make([]model.AccessPoint, 0, len(clustered))
	for _, vc := range clustered {
		access, ok := drivability.Score(vc, roads, req)
		if !ok {
			continue
		}
		drivableCandidates = append(drivableCandidates, vc)
		drivableAccess = append(drivableAccess, access)
	}
	out.DrivableCount = len(drivableCandidates)
	logger.Debug("stage drivability complete", "count", len(drivableCandidates), "discarded", len(clustered)-len(drivableCandidates))
	if len(drivableCandidates) == 0 {
		out.EmptyStage = model.StageDrivability
		return out, &model.EmptyPipelineError{Stage: model.StageDrivability}
	}

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	out.Results = scorer.Rank(drivableCandidates, drivableAccess, req)
	logger.Info("pipeline run complete", "results", len(out.Results))

	return out, nil
}

// minCandidateElevation is the floor passed to the candidate detector; the
// spec's VisibilityRequest carries no separate elevation-floor field, so
// every local maximum above no-data is a candidate.
const minCandidateElevation = -1e18

func checkCancelled(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	if ctx.Err() != nil {
		return model.ErrCancelled
	}
	return nil
}
