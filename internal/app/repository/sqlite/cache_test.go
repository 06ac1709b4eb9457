package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"clipnotes/internal/app/model"
)

func newTestDB(t *testing.T) *CacheDB {
	t.Helper()
	db, err := NewCacheDB(filepath.Join(t.TempDir(), "artifacts.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testEntry(fingerprint string) *model.CacheEntry {
	return &model.CacheEntry{
		Fingerprint: fingerprint,
		VideoPath:   "/videos/demo.mp4",
		DurationSec: 720,
		Transcript: &model.Transcript{Segments: []model.Segment{
			{Start: 0, End: 4, Text: "hello"},
		}},
		Summary: &model.Summary{
			Topics: []model.Topic{
				{Title: "Intro", Start: "00:00", Description: "Opening remarks."},
			},
			Model: "gpt-4o-mini",
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestNewCacheDBCreatesDataDir(t *testing.T) {
	// First launch on a fresh machine: the data directory does not exist yet.
	dbPath := filepath.Join(t.TempDir(), "home", ".clipnotes", "artifacts.db")

	db, err := NewCacheDB(dbPath, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Store(testEntry("fp-1")))
	got, err := db.Lookup("fp-1")
	require.NoError(t, err)
	assert.True(t, got.Complete())
}

func TestLookupMiss(t *testing.T) {
	db := newTestDB(t)

	entry, err := db.Lookup("absent")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestStoreAndLookup(t *testing.T) {
	db := newTestDB(t)
	stored := testEntry("fp-1")
	require.NoError(t, db.Store(stored))

	got, err := db.Lookup("fp-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.True(t, got.Complete())
	assert.Equal(t, stored.VideoPath, got.VideoPath)
	assert.Equal(t, stored.Transcript.Segments, got.Transcript.Segments)
	assert.Equal(t, stored.Summary.Topics, got.Summary.Topics)
}

func TestStoreIdempotentOverwrite(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Store(testEntry("fp-1")))
	require.NoError(t, db.Store(testEntry("fp-1")))

	entries, err := db.List()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestEntriesAreIndependent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Store(testEntry("fp-1")))
	require.NoError(t, db.Store(testEntry("fp-2")))

	// Corrupt one entry's artifacts directly.
	_, err := db.db.Exec(`UPDATE cache_entries SET transcript = 'garbage', summary = 'garbage' WHERE fingerprint = 'fp-1'`)
	require.NoError(t, err)

	corrupt, err := db.Lookup("fp-1")
	require.NoError(t, err)
	assert.Nil(t, corrupt, "fully corrupt entry reads as a miss")

	intact, err := db.Lookup("fp-2")
	require.NoError(t, err)
	require.NotNil(t, intact)
	assert.True(t, intact.Complete())
}

func TestCorruptSummaryKeepsTranscript(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Store(testEntry("fp-1")))

	_, err := db.db.Exec(`UPDATE cache_entries SET summary = '{broken' WHERE fingerprint = 'fp-1'`)
	require.NoError(t, err)

	got, err := db.Lookup("fp-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.NotNil(t, got.Transcript, "intact transcript half is still served")
	assert.Nil(t, got.Summary)
	assert.False(t, got.Complete())
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Store(testEntry("fp-1")))
	require.NoError(t, db.Delete("fp-1"))
	require.NoError(t, db.Delete("fp-1"), "deleting an absent entry is a no-op")

	entry, err := db.Lookup("fp-1")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestListNewestFirst(t *testing.T) {
	db := newTestDB(t)

	older := testEntry("fp-old")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := testEntry("fp-new")
	newer.CreatedAt = time.Now().UTC()

	require.NoError(t, db.Store(older))
	require.NoError(t, db.Store(newer))

	entries, err := db.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "fp-new", entries[0].Fingerprint)
	assert.Equal(t, "fp-old", entries[1].Fingerprint)
}

func TestSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifacts.db")

	db, err := NewCacheDB(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.Store(testEntry("fp-1")))
	require.NoError(t, db.Close())

	reopened, err := NewCacheDB(path, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Lookup("fp-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Complete())
}
