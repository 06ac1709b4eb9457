package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"clipnotes/internal/app/model"
)

// Result is the terminal outcome of one run. Entry is set only when State
// is RunDone. Stage and Cause name where and why a run failed, in terms the
// UI can translate to plain language.
type Result struct {
	State model.RunState
	Entry *model.CacheEntry
	Stage model.Stage
	Cause string
	Err   error
}

// Run is one submitted video moving through the pipeline. Its progress
// stream is single-consumer: one run, one subscriber.
type Run struct {
	id        string
	videoPath string

	events chan model.ProgressEvent
	done   chan struct{}

	cancelOnce sync.Once
	cancel     context.CancelFunc

	mu     sync.Mutex
	result Result
}

func newRun(videoPath string, cancel context.CancelFunc) *Run {
	return &Run{
		id:        uuid.New().String(),
		videoPath: videoPath,
		events:    make(chan model.ProgressEvent, 64),
		done:      make(chan struct{}),
		cancel:    cancel,
	}
}

// ID returns the run identifier handed back to the UI for cancellation.
func (r *Run) ID() string { return r.id }

// VideoPath returns the submitted input path.
func (r *Run) VideoPath() string { return r.videoPath }

// Events returns the ordered progress stream. The channel closes when the
// run reaches a terminal state.
func (r *Run) Events() <-chan model.ProgressEvent { return r.events }

// Done closes when the run reaches a terminal state.
func (r *Run) Done() <-chan struct{} { return r.done }

// Cancel requests cooperative cancellation. The running backend call stops
// at its next checkpoint; Cancel returns immediately.
func (r *Run) Cancel() {
	r.cancelOnce.Do(r.cancel)
}

// Result blocks until the run terminates and returns its outcome.
func (r *Run) Result() Result {
	<-r.done
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

// emit publishes a progress event without ever blocking the pipeline: if
// the subscriber lags behind the buffer, intermediate events are dropped.
func (r *Run) emit(ev model.ProgressEvent) {
	select {
	case r.events <- ev:
	default:
	}
}

func (r *Run) finish(result Result) {
	r.mu.Lock()
	r.result = result
	r.mu.Unlock()
	close(r.events)
	close(r.done)
}
