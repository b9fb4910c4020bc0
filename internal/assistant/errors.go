package assistant

import (
	"errors"
	"fmt"
)

// Stage identifies the pipeline stage a failure belongs to.
type Stage string

const (
	StageExtraction Stage = "extraction"
	StageRetrieval  Stage = "retrieval"
	StageSynthesis  Stage = "synthesis"
	StageLogging    Stage = "logging"
)

// PipelineError wraps a stage failure. The orchestrator converts any
// of these into the fixed fallback reply; the stage is only used for
// logs and metrics, never shown to users.
type PipelineError struct {
	Stage Stage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s stage: %s", e.Stage, e.Err.Error())
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func stageError(stage Stage, err error) error {
	return &PipelineError{Stage: stage, Err: err}
}

// FailedStage reports which stage produced err, or "" when err is not
// a pipeline error.
func FailedStage(err error) Stage {
	var perr *PipelineError
	if errors.As(err, &perr) {
		return perr.Stage
	}
	return ""
}
