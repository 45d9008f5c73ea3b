package pipeline

import (
	"context"
	"errors"
	"fmt"
)

// Stage names the step of an invocation that failed. An invocation is
// terminal on its first unrecoverable failure.
type Stage string

const (
	StageFetch  Stage = "FETCH_IMAGE"
	StageDetect Stage = "DETECT_TEXT"
	StagePlan   Stage = "PLAN_REDACTIONS"
	StageApply  Stage = "APPLY_REDACTIONS"
	StageStore  Stage = "STORE_RESULT"
)

// ErrTimeout marks a bounded external call that exceeded its deadline.
// It cross-cuts the stage kinds: a timed-out fetch unwraps to both
// ErrTimeout and the fetch failure.
var ErrTimeout = errors.New("call timed out")

// StageError ties a failure to the pipeline stage it occurred in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage Stage, err error) *StageError {
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
		err = fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return &StageError{Stage: stage, Err: err}
}
