package model

import "time"

// CacheEntry pairs the artifacts of one fully successful pipeline run with
// the fingerprint that produced them. Entries are never mutated in place; a
// changed backend configuration yields a new fingerprint and a new entry.
type CacheEntry struct {
	Fingerprint string      `json:"fingerprint"`
	VideoPath   string      `json:"video_path"`
	DurationSec float64     `json:"duration_sec"`
	Transcript  *Transcript `json:"transcript"`
	Summary     *Summary    `json:"summary"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Complete reports whether both artifacts are present, i.e. a full cache
// hit that skips transcription and summarization entirely.
func (e *CacheEntry) Complete() bool {
	return e != nil && e.Transcript != nil && e.Summary != nil
}
