package services

import (
	"sync"

	apperrors "clipnotes/internal/app/errors"
	"clipnotes/internal/app/model"
	"clipnotes/internal/app/pipeline"
)

// ErrRunNotFound is returned for unknown run IDs.
var ErrRunNotFound = apperrors.New("run not found")

// RunStatus is a point-in-time view of a run for polling clients.
type RunStatus struct {
	ID        string
	VideoPath string
	State     string
	Events    []model.ProgressEvent
	NextEvent int

	// Terminal details, zero while the run is active.
	Stage model.Stage
	Cause string
	Err   error
	Entry *model.CacheEntry
}

// RunService exposes pipeline runs to the HTTP layer. It buffers each run's
// progress stream so clients can poll instead of holding a connection open.
type RunService interface {
	Submit(videoPath string) (*RunStatus, error)
	Get(id string, since int) (*RunStatus, error)
	Cancel(id string) error
}

const runStateRunning = "running"

type trackedRun struct {
	run *pipeline.Run

	mu     sync.Mutex
	events []model.ProgressEvent
}

func (t *trackedRun) append(ev model.ProgressEvent) {
	t.mu.Lock()
	t.events = append(t.events, ev)
	t.mu.Unlock()
}

func (t *trackedRun) snapshot(since int) ([]model.ProgressEvent, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if since < 0 || since > len(t.events) {
		since = 0
	}
	out := make([]model.ProgressEvent, len(t.events)-since)
	copy(out, t.events[since:])
	return out, len(t.events)
}

type runService struct {
	pipeline *pipeline.Pipeline

	mu   sync.Mutex
	runs map[string]*trackedRun
}

// NewRunService wraps the pipeline with an in-memory run registry.
func NewRunService(p *pipeline.Pipeline) RunService {
	return &runService{
		pipeline: p,
		runs:     map[string]*trackedRun{},
	}
}

func (s *runService) Submit(videoPath string) (*RunStatus, error) {
	run, err := s.pipeline.Submit(videoPath)
	if err != nil {
		return nil, err
	}

	tracked := &trackedRun{run: run}
	s.mu.Lock()
	s.runs[run.ID()] = tracked
	s.mu.Unlock()

	// The progress channel is single-consumer; drain it into the buffer so
	// any number of polls can replay it.
	go func() {
		for ev := range run.Events() {
			tracked.append(ev)
		}
	}()

	return &RunStatus{
		ID:        run.ID(),
		VideoPath: run.VideoPath(),
		State:     runStateRunning,
	}, nil
}

func (s *runService) Get(id string, since int) (*RunStatus, error) {
	tracked := s.lookup(id)
	if tracked == nil {
		return nil, ErrRunNotFound
	}

	events, next := tracked.snapshot(since)
	status := &RunStatus{
		ID:        tracked.run.ID(),
		VideoPath: tracked.run.VideoPath(),
		State:     runStateRunning,
		Events:    events,
		NextEvent: next,
	}

	select {
	case <-tracked.run.Done():
		result := tracked.run.Result()
		status.State = string(result.State)
		status.Stage = result.Stage
		status.Cause = result.Cause
		status.Err = result.Err
		status.Entry = result.Entry
	default:
	}

	return status, nil
}

func (s *runService) Cancel(id string) error {
	tracked := s.lookup(id)
	if tracked == nil {
		return ErrRunNotFound
	}
	tracked.run.Cancel()
	return nil
}

func (s *runService) lookup(id string) *trackedRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs[id]
}
