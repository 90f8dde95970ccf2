package pipeline

import "github.com/sytelus/highpoint/pkg/model"

// Re-exported so callers only need to import this package's error
// vocabulary; the underlying types are the shared ones every stage
// package returns.
type (
	InvalidInputError   = model.InvalidInputError
	EmptyPipelineError  = model.EmptyPipelineError
	InternalError       = model.InternalError
)

var (
	ErrInvalidInput  = model.ErrInvalidInput
	ErrEmptyPipeline = model.ErrEmptyPipeline
	ErrCancelled     = model.ErrCancelled
)
