package model

import "errors"

// ErrInvalidInput is the sentinel wrapped by InvalidInputError.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports a structurally invalid TerrainGrid, RoadSegment
// set, or VisibilityRequest (negative cell size, empty grid,
// rays_full_circle < 4, non-finite configuration, negative min_fov_deg).
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// ErrEmptyPipeline is the sentinel wrapped by EmptyPipelineError.
var ErrEmptyPipeline = errors.New("pipeline produced zero survivors")

// Stage names used by EmptyPipelineError, matching spec section naming.
const (
	StageCandidates   = "candidates"
	StageVisibility   = "visibility"
	StageCluster      = "cluster"
	StageDrivability  = "drivability"
)

// EmptyPipelineError is a non-fatal outcome: the pipeline ran to
// completion but the named stage produced zero survivors. Callers should
// treat this as a distinct success variant, not a fatal error.
type EmptyPipelineError struct {
	Stage string
}

func (e *EmptyPipelineError) Error() string {
	return "pipeline emptied at stage: " + e.Stage
}

func (e *EmptyPipelineError) Unwrap() error {
	return ErrEmptyPipeline
}

// ErrCancelled is returned when the pipeline observes a cancelled context
// at one of its cooperative cancellation points.
var ErrCancelled = errors.New("pipeline cancelled")

// InternalError reports a violated invariant (e.g. a NaN elevation
// surviving interpolation). Always fatal, never absorbed.
type InternalError struct {
	Detail string
}

func (e *InternalError) Error() string {
	return "internal error: " + e.Detail
}
