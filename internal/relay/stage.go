package relay

import (
	"slices"
	"time"
)

// Stage is a step in the lifecycle of one analyze request.
type Stage string

const (
	StageReceived      Stage = "received"
	StageConfigChecked Stage = "config_checked"
	StageFileChecked   Stage = "file_checked"
	StageUploading     Stage = "uploading"
	StageUploaded      Stage = "uploaded"
	StageExecuting     Stage = "executing"
	StageCompleted     Stage = "completed"
	StageErrored       Stage = "errored"
)

var pipeline = []Stage{
	StageReceived,
	StageConfigChecked,
	StageFileChecked,
	StageUploading,
	StageUploaded,
	StageExecuting,
	StageCompleted,
}

// Terminal reports whether no further transition is possible.
func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageErrored
}

func (s Stage) next() Stage {
	i := slices.Index(pipeline, s)
	if i < 0 || i == len(pipeline)-1 {
		return ""
	}
	return pipeline[i+1]
}

// Trace follows one analyze request through its stages. Reached holds the
// last pipeline stage entered, so it still names the failing step once Stage
// is StageErrored.
type Trace struct {
	RequestID string
	Stage     Stage
	Reached   Stage
	FileID    string
	Err       error
	Started   time.Time
}

// NewTrace starts a trace in StageReceived.
func NewTrace(requestID string) *Trace {
	return &Trace{
		RequestID: requestID,
		Stage:     StageReceived,
		Reached:   StageReceived,
		Started:   time.Now(),
	}
}

// Advance moves to next when next directly follows the current stage.
// It reports false and leaves the trace unchanged otherwise.
func (t *Trace) Advance(next Stage) bool {
	if t.Stage.Terminal() || t.Stage.next() != next {
		return false
	}
	t.Stage = next
	t.Reached = next
	return true
}

// Fail records err and moves to StageErrored. The first failure wins.
func (t *Trace) Fail(err error) {
	if t.Stage.Terminal() {
		return
	}
	t.Err = err
	t.Stage = StageErrored
}

// Duration returns the time elapsed since the trace started.
func (t *Trace) Duration() time.Duration {
	return time.Since(t.Started)
}
