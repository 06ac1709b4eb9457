package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStatePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "recent_videos.json")
}

func TestRecentStoreEmptyWhenFileMissing(t *testing.T) {
	s, err := NewRecentStore(tempStatePath(t))
	require.NoError(t, err)
	assert.Empty(t, s.List())
}

func TestRecentStoreAddAndReload(t *testing.T) {
	path := tempStatePath(t)

	s, err := NewRecentStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Add("/videos/a.mp4", "fp-a"))
	require.NoError(t, s.Add("/videos/b.mp4", "fp-b"))

	reloaded, err := NewRecentStore(path)
	require.NoError(t, err)
	videos := reloaded.List()
	require.Len(t, videos, 2)
	assert.Equal(t, "/videos/b.mp4", videos[0].Path)
	assert.Equal(t, "fp-b", videos[0].Fingerprint)
	assert.Equal(t, "/videos/a.mp4", videos[1].Path)
}

func TestRecentStoreDeduplicatesByPath(t *testing.T) {
	s, err := NewRecentStore(tempStatePath(t))
	require.NoError(t, err)

	require.NoError(t, s.Add("/videos/a.mp4", "fp-1"))
	require.NoError(t, s.Add("/videos/b.mp4", "fp-2"))
	require.NoError(t, s.Add("/videos/a.mp4", "fp-3"))

	videos := s.List()
	require.Len(t, videos, 2)
	assert.Equal(t, "/videos/a.mp4", videos[0].Path)
	assert.Equal(t, "fp-3", videos[0].Fingerprint)
}

func TestRecentStoreTrimsToLimit(t *testing.T) {
	s, err := NewRecentStore(tempStatePath(t))
	require.NoError(t, err)

	for i := 0; i < maxRecent+5; i++ {
		require.NoError(t, s.Add(filepath.Join("/videos", string(rune('a'+i))+".mp4"), "fp"))
	}
	assert.Len(t, s.List(), maxRecent)
}

func TestRecentStoreRemove(t *testing.T) {
	s, err := NewRecentStore(tempStatePath(t))
	require.NoError(t, err)
	require.NoError(t, s.Add("/videos/a.mp4", "fp-a"))
	require.NoError(t, s.Add("/videos/b.mp4", "fp-b"))

	require.NoError(t, s.Remove("/videos/a.mp4"))
	videos := s.List()
	require.Len(t, videos, 1)
	assert.Equal(t, "/videos/b.mp4", videos[0].Path)
}

func TestRecentStoreCorruptFileStartsEmpty(t *testing.T) {
	path := tempStatePath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := NewRecentStore(path)
	require.NoError(t, err)
	assert.Empty(t, s.List())

	// A corrupt file is recoverable: the next Add rewrites it.
	require.NoError(t, s.Add("/videos/a.mp4", "fp-a"))
	reloaded, err := NewRecentStore(path)
	require.NoError(t, err)
	assert.Len(t, reloaded.List(), 1)
}
