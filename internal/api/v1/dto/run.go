package dto

import "clipnotes/internal/app/model"

// SubmitRunRequest starts a pipeline run for a local video file.
type SubmitRunRequest struct {
	VideoPath string `json:"video_path" binding:"required"`
}

// RunResponse describes a submitted run.
type RunResponse struct {
	ID        string `json:"id"`
	VideoPath string `json:"video_path"`
	State     string `json:"state"`
}

// RunEventsResponse is the polling payload for a run's progress stream.
// NextEvent is the cursor to pass back as the since parameter.
type RunEventsResponse struct {
	ID        string                `json:"id"`
	State     string                `json:"state"`
	Events    []model.ProgressEvent `json:"events"`
	NextEvent int                   `json:"next_event"`

	// Populated on terminal states only.
	Stage string            `json:"stage,omitempty"`
	Cause string            `json:"cause,omitempty"`
	Error string            `json:"error,omitempty"`
	Entry *model.CacheEntry `json:"entry,omitempty"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Cause string `json:"cause,omitempty"`
}
