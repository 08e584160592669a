package pipeline

import "fmt"

// Stage names a step of the per-lead pipeline.
type Stage string

const (
	StageConfirm  Stage = "confirm"
	StageGenerate Stage = "generate"
	StageRender   Stage = "render"
	StageSend     Stage = "send"
	StageLog      Stage = "log"
)

// StageError is a failure in one stage for one lead.
type StageError struct {
	Stage  Stage
	Domain string
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
