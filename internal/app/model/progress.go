package model

// Stage names the pipeline states. The zero value is StageIdle.
type Stage string

const (
	StageIdle           Stage = "idle"
	StageFingerprinting Stage = "fingerprinting"
	StageCacheCheck     Stage = "cache_check"
	StageTranscribing   Stage = "transcribing"
	StageSummarizing    Stage = "summarizing"
	StagePersisting     Stage = "persisting"
)

// RunState is the terminal outcome of a pipeline run.
type RunState string

const (
	RunDone      RunState = "done"
	RunFailed    RunState = "failed"
	RunCancelled RunState = "cancelled"
)

// ProgressEvent is one element of the ordered, single-consumer progress
// stream a run emits. Fraction is -1 when the stage cannot estimate
// completion.
type ProgressEvent struct {
	Stage    Stage   `json:"stage"`
	Fraction float64 `json:"fraction"`
	Message  string  `json:"message"`
}
