package api

import (
	"context"

	"clipnotes/internal/app/model"
)

// Summarizer turns a transcript into a validated topic summary. The video
// duration feeds the quality target (at least five topics past five
// minutes).
type Summarizer interface {
	Summarize(ctx context.Context, transcript *model.Transcript, videoDurationSec float64) (*model.Summary, error)

	// ID and Model identify the backend configuration for fingerprinting.
	ID() string
	Model() string
}
