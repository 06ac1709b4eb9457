// Package state persists small bits of UI state between sessions, currently
// the recently processed videos list shown on startup.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	apperrors "clipnotes/internal/app/errors"
	"clipnotes/internal/app/util/files"
)

const maxRecent = 20

// RecentVideo is one line in the recents list.
type RecentVideo struct {
	Path        string    `json:"path"`
	Fingerprint string    `json:"fingerprint"`
	ProcessedAt time.Time `json:"processed_at"`
}

// RecentStore keeps the recents list in a JSON file under the state
// directory. A missing or unparseable file starts an empty list; the state
// is advisory and never fails a pipeline run.
type RecentStore struct {
	path string

	mu     sync.Mutex
	videos []RecentVideo
}

// NewRecentStore loads the recents file at path, if present.
func NewRecentStore(path string) (*RecentStore, error) {
	s := &RecentStore{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, "read recents file %s", path)
	}
	if err := json.Unmarshal(data, &s.videos); err != nil {
		// Corrupt state is discarded, not fatal.
		s.videos = nil
	}
	return s, nil
}

// Add records a processed video at the head of the list, deduplicating by
// path and trimming to the retention limit, then writes the file.
func (s *RecentStore) Add(path, fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := []RecentVideo{{
		Path:        path,
		Fingerprint: fingerprint,
		ProcessedAt: time.Now().UTC(),
	}}
	for _, v := range s.videos {
		if v.Path == path {
			continue
		}
		updated = append(updated, v)
		if len(updated) == maxRecent {
			break
		}
	}
	s.videos = updated

	return s.save()
}

// List returns the recents, newest first.
func (s *RecentStore) List() []RecentVideo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecentVideo, len(s.videos))
	copy(out, s.videos)
	return out
}

// Remove drops a path from the list, typically after the file disappeared.
func (s *RecentStore) Remove(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.videos[:0]
	for _, v := range s.videos {
		if v.Path != path {
			kept = append(kept, v)
		}
	}
	s.videos = kept
	return s.save()
}

func (s *RecentStore) save() error {
	if err := files.EnsureDir(filepath.Dir(s.path)); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.videos, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, "encode recents")
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return apperrors.Wrapf(err, "write recents file %s", tmp)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return apperrors.Wrapf(err, "replace recents file %s", s.path)
	}
	return nil
}
