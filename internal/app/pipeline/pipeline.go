package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"clipnotes/internal/app/api"
	"clipnotes/internal/app/audio"
	apperrors "clipnotes/internal/app/errors"
	"clipnotes/internal/app/fingerprint"
	"clipnotes/internal/app/metrics"
	"clipnotes/internal/app/model"
	"clipnotes/internal/app/repository"
	"clipnotes/internal/app/util/files"
)

// Pipeline sequences fingerprinting, cache lookup, transcription,
// summarization and the final cache write for one video at a time. A second
// Submit while a run is active is rejected; the UI queues or blocks.
type Pipeline struct {
	transcriber api.Transcriber
	summarizer  api.Summarizer
	cache       repository.CacheDAO
	metrics     *metrics.Metrics
	logger      *zap.Logger

	mu     sync.Mutex
	active *Run
}

// New assembles a pipeline from its collaborators.
func New(transcriber api.Transcriber, summarizer api.Summarizer, cache repository.CacheDAO,
	m *metrics.Metrics, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		transcriber: transcriber,
		summarizer:  summarizer,
		cache:       cache,
		metrics:     m,
		logger:      logger,
	}
}

// BackendConfig reports the active backend identifiers, the configuration
// half of every fingerprint.
func (p *Pipeline) BackendConfig() fingerprint.BackendConfig {
	return fingerprint.BackendConfig{
		TranscriberID:      p.transcriber.ID(),
		TranscriptionModel: p.transcriber.Model(),
		SummarizerID:       p.summarizer.ID(),
		SummaryModel:       p.summarizer.Model(),
	}
}

// Fingerprint computes the cache key for videoPath under the active backend
// configuration. Exposed so the UI can redisplay cached results without
// submitting a run.
func (p *Pipeline) Fingerprint(videoPath string) (string, error) {
	return fingerprint.Compute(videoPath, p.BackendConfig())
}

// GetCachedResult is the read-only cache access the UI uses for instant
// redisplay.
func (p *Pipeline) GetCachedResult(fp string) (*model.CacheEntry, error) {
	return p.cache.Lookup(fp)
}

// ActiveRun returns the in-flight run, or nil.
func (p *Pipeline) ActiveRun() *Run {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Submit starts a pipeline run for videoPath. It fails with
// ErrRunInProgress while another run is active, and with ErrUnreadableInput
// without touching any backend when the input cannot feed the pipeline.
func (p *Pipeline) Submit(videoPath string) (*Run, error) {
	if err := files.ValidateVideo(videoPath); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.active != nil {
		p.mu.Unlock()
		return nil, apperrors.ErrRunInProgress
	}

	ctx, cancel := context.WithCancel(context.Background())
	run := newRun(videoPath, cancel)
	p.active = run
	p.mu.Unlock()

	go p.execute(ctx, run)

	return run, nil
}

// execute drives the state machine to a terminal state and records it.
func (p *Pipeline) execute(ctx context.Context, run *Run) {
	result := p.runStages(ctx, run)

	p.metrics.RunsTotal.WithLabelValues(string(result.State)).Inc()

	switch result.State {
	case model.RunDone:
		p.logger.Info("pipeline run done",
			zap.String("run_id", run.ID()),
			zap.String("video", run.VideoPath()))
	case model.RunCancelled:
		p.logger.Info("pipeline run cancelled",
			zap.String("run_id", run.ID()),
			zap.String("stage", string(result.Stage)))
	case model.RunFailed:
		p.logger.Error("pipeline run failed",
			zap.String("run_id", run.ID()),
			zap.String("stage", string(result.Stage)),
			zap.String("cause", result.Cause),
			zap.Error(result.Err))
	}

	// Free the single-flight slot before waiters observe completion, so a
	// caller woken by Done can submit again immediately.
	p.mu.Lock()
	p.active = nil
	p.mu.Unlock()

	run.finish(result)
}

func (p *Pipeline) runStages(ctx context.Context, run *Run) Result {
	// Fingerprinting.
	run.emit(model.ProgressEvent{Stage: model.StageFingerprinting, Fraction: -1,
		Message: "Computing video fingerprint"})
	stageStart := time.Now()
	fp, err := fingerprint.Compute(run.VideoPath(), p.BackendConfig())
	if err != nil {
		return p.failure(model.StageFingerprinting, err)
	}
	p.metrics.StageDuration.WithLabelValues(string(model.StageFingerprinting)).
		Observe(time.Since(stageStart).Seconds())

	// Cache check.
	run.emit(model.ProgressEvent{Stage: model.StageCacheCheck, Fraction: -1,
		Message: "Checking artifact cache"})
	cached, err := p.cache.Lookup(fp)
	if err != nil {
		// Lookup never fails on corruption; anything else is logged and
		// treated as a miss too.
		p.logger.Warn("cache lookup error, treating as miss", zap.Error(err))
		cached = nil
	}
	if cached.Complete() {
		p.metrics.CacheLookups.WithLabelValues("hit").Inc()
		run.emit(model.ProgressEvent{Stage: model.StageCacheCheck, Fraction: 1,
			Message: "Reusing cached transcript and summary"})
		return Result{State: model.RunDone, Entry: cached}
	}

	var transcript *model.Transcript
	var durationSec float64
	if cached != nil && cached.Transcript != nil {
		// Partial hit: reuse the transcript, re-enter at summarization.
		p.metrics.CacheLookups.WithLabelValues("partial").Inc()
		transcript = cached.Transcript
		durationSec = cached.DurationSec
		run.emit(model.ProgressEvent{Stage: model.StageTranscribing, Fraction: 1,
			Message: "Reusing cached transcript"})
	} else {
		p.metrics.CacheLookups.WithLabelValues("miss").Inc()

		// Transcribing.
		durationSec, err = audio.Duration(ctx, run.VideoPath())
		if err != nil {
			p.logger.Warn("could not probe video duration", zap.Error(err))
		}
		run.emit(model.ProgressEvent{Stage: model.StageTranscribing, Fraction: 0,
			Message: "Transcribing audio"})
		stageStart = time.Now()
		transcript, err = p.transcriber.Transcribe(ctx, api.TranscriptionRequest{
			InputFilePath: run.VideoPath(),
			Progress: func(done, total int) {
				fraction := -1.0
				if total > 0 {
					fraction = float64(done) / float64(total)
				}
				run.emit(model.ProgressEvent{Stage: model.StageTranscribing, Fraction: fraction,
					Message: fmt.Sprintf("Transcribed %d of %d", done, total)})
			},
		})
		if err != nil {
			if ctx.Err() != nil {
				return p.cancelled(model.StageTranscribing)
			}
			return p.failure(model.StageTranscribing, err)
		}
		p.metrics.StageDuration.WithLabelValues(string(model.StageTranscribing)).
			Observe(time.Since(stageStart).Seconds())
	}

	if err := ctx.Err(); err != nil {
		return p.cancelled(model.StageTranscribing)
	}

	// Summarizing.
	run.emit(model.ProgressEvent{Stage: model.StageSummarizing, Fraction: -1,
		Message: "Generating topic summary"})
	stageStart = time.Now()
	summary, err := p.summarizer.Summarize(ctx, transcript, durationSec)
	if err != nil {
		if ctx.Err() != nil {
			return p.cancelled(model.StageSummarizing)
		}
		return p.failure(model.StageSummarizing, err)
	}
	p.metrics.StageDuration.WithLabelValues(string(model.StageSummarizing)).
		Observe(time.Since(stageStart).Seconds())

	if err := ctx.Err(); err != nil {
		return p.cancelled(model.StageSummarizing)
	}

	// Persisting. Both artifacts land in one atomic write before Done is
	// reported.
	run.emit(model.ProgressEvent{Stage: model.StagePersisting, Fraction: -1,
		Message: "Writing artifacts to cache"})
	entry := &model.CacheEntry{
		Fingerprint: fp,
		VideoPath:   run.VideoPath(),
		DurationSec: durationSec,
		Transcript:  transcript,
		Summary:     summary,
		CreatedAt:   time.Now().UTC(),
	}
	if err := p.cache.Store(entry); err != nil {
		return p.failure(model.StagePersisting, err)
	}

	run.emit(model.ProgressEvent{Stage: model.StagePersisting, Fraction: 1,
		Message: "Summary ready"})
	return Result{State: model.RunDone, Entry: entry}
}

func (p *Pipeline) failure(stage model.Stage, err error) Result {
	return Result{
		State: model.RunFailed,
		Stage: stage,
		Cause: apperrors.Category(err),
		Err:   err,
	}
}

func (p *Pipeline) cancelled(stage model.Stage) Result {
	return Result{
		State: model.RunCancelled,
		Stage: stage,
		Err:   apperrors.ErrRunCancelled,
	}
}
