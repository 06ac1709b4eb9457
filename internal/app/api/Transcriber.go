package api

import (
	"context"

	"clipnotes/internal/app/model"
)

// ProgressFunc reports incremental completion as (done, total) work units.
// Backends that cannot estimate progress simply never call it.
type ProgressFunc func(done, total int)

// TranscriptionRequest carries one transcription job.
type TranscriptionRequest struct {
	InputFilePath string
	// Language is an optional hint ("en", "pt", ...). Empty means
	// autodetect.
	Language string
	// Progress is invoked between work units when the backend supports it.
	Progress ProgressFunc
}

// Transcriber converts a video file into a timestamped transcript. The
// context is checked at chunk boundaries at minimum; cancelling it stops the
// job at the next safe checkpoint.
type Transcriber interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (*model.Transcript, error)

	// ID and Model identify the backend configuration for fingerprinting.
	ID() string
	Model() string
}
