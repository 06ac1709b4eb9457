package sqlite

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	apperrors "clipnotes/internal/app/errors"
	"clipnotes/internal/app/model"
	"clipnotes/internal/app/util/files"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS cache_entries (
	fingerprint  TEXT PRIMARY KEY,
	video_path   TEXT NOT NULL,
	duration_sec REAL NOT NULL DEFAULT 0,
	transcript   TEXT NOT NULL,
	summary      TEXT NOT NULL,
	created_at   TIMESTAMP NOT NULL
);`

// CacheDB is the sqlite-backed artifact cache. Each entry is one row, so a
// transactional upsert gives the atomicity the cache contract requires and
// corruption in one row never affects the others.
type CacheDB struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCacheDB opens (and if needed initializes) the cache database at
// dbFilePath, creating the containing directory on first use.
func NewCacheDB(dbFilePath string, logger *zap.Logger) (*CacheDB, error) {
	if err := files.EnsureDir(filepath.Dir(dbFilePath)); err != nil {
		return nil, apperrors.Wrapf(err, "failed to create cache directory for %s", dbFilePath)
	}
	db, err := sql.Open("sqlite3", dbFilePath)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to open cache database %s", dbFilePath)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, apperrors.Wrap(err, "failed to initialize cache schema")
	}
	return &CacheDB{db: db, logger: logger}, nil
}

func (c *CacheDB) Close() error {
	return c.db.Close()
}

// Lookup reads the entry for fingerprint. A miss is (nil, nil). Corrupt
// artifact JSON is logged and returned as absent rather than failing the
// lookup; if only the summary half is corrupt the transcript is still
// served so the pipeline can resume at summarization.
func (c *CacheDB) Lookup(fingerprint string) (*model.CacheEntry, error) {
	row := c.db.QueryRow(
		`SELECT video_path, duration_sec, transcript, summary, created_at
		 FROM cache_entries WHERE fingerprint = ?`, fingerprint)

	var (
		videoPath      string
		durationSec    float64
		transcriptJSON string
		summaryJSON    string
		createdAt      time.Time
	)
	err := row.Scan(&videoPath, &durationSec, &transcriptJSON, &summaryJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		// Unreadable row: treat as corruption, i.e. a miss.
		c.logger.Warn("cache row unreadable, treating as miss",
			zap.String("fingerprint", fingerprint),
			zap.Error(apperrors.Wrap(err, apperrors.ErrCacheCorruption.Error())))
		return nil, nil
	}

	entry := &model.CacheEntry{
		Fingerprint: fingerprint,
		VideoPath:   videoPath,
		DurationSec: durationSec,
		CreatedAt:   createdAt,
	}

	var transcript model.Transcript
	if err := json.Unmarshal([]byte(transcriptJSON), &transcript); err != nil {
		c.logger.Warn("cached transcript corrupt",
			zap.String("fingerprint", fingerprint), zap.Error(err))
	} else {
		entry.Transcript = &transcript
	}

	var summary model.Summary
	if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil || len(summary.Topics) == 0 {
		c.logger.Warn("cached summary corrupt or empty",
			zap.String("fingerprint", fingerprint), zap.Error(err))
	} else {
		entry.Summary = &summary
	}

	if entry.Transcript == nil && entry.Summary == nil {
		// Both halves unreadable: a full miss.
		return nil, nil
	}
	return entry, nil
}

// Store upserts the entry in a single transaction. Both artifacts land
// atomically; a concurrent reader sees either the old row or the complete
// new one.
func (c *CacheDB) Store(entry *model.CacheEntry) error {
	transcriptJSON, err := json.Marshal(entry.Transcript)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode transcript")
	}
	summaryJSON, err := json.Marshal(entry.Summary)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode summary")
	}

	tx, err := c.db.Begin()
	if err != nil {
		return apperrors.Wrap(err, "failed to begin cache transaction")
	}

	_, err = tx.Exec(
		`INSERT INTO cache_entries (fingerprint, video_path, duration_sec, transcript, summary, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(fingerprint) DO UPDATE SET
			video_path = excluded.video_path,
			duration_sec = excluded.duration_sec,
			transcript = excluded.transcript,
			summary = excluded.summary,
			created_at = excluded.created_at`,
		entry.Fingerprint, entry.VideoPath, entry.DurationSec,
		string(transcriptJSON), string(summaryJSON), entry.CreatedAt)
	if err != nil {
		tx.Rollback()
		return apperrors.Wrap(err, "failed to write cache entry")
	}

	return tx.Commit()
}

// List returns all entries, newest first. Corrupt rows are skipped with a
// warning.
func (c *CacheDB) List() ([]*model.CacheEntry, error) {
	rows, err := c.db.Query(
		`SELECT fingerprint, video_path, duration_sec, transcript, summary, created_at
		 FROM cache_entries ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperrors.Wrap(err, "cache list query failed")
	}
	defer rows.Close()

	entries := make([]*model.CacheEntry, 0)
	for rows.Next() {
		var (
			fingerprint    string
			videoPath      string
			durationSec    float64
			transcriptJSON string
			summaryJSON    string
			createdAt      time.Time
		)
		if err := rows.Scan(&fingerprint, &videoPath, &durationSec, &transcriptJSON, &summaryJSON, &createdAt); err != nil {
			return nil, apperrors.Wrap(err, "cache row scan failed")
		}

		entry := &model.CacheEntry{
			Fingerprint: fingerprint,
			VideoPath:   videoPath,
			DurationSec: durationSec,
			CreatedAt:   createdAt,
		}
		var transcript model.Transcript
		if err := json.Unmarshal([]byte(transcriptJSON), &transcript); err != nil {
			c.logger.Warn("skipping corrupt cache row", zap.String("fingerprint", fingerprint))
			continue
		}
		entry.Transcript = &transcript
		var summary model.Summary
		if err := json.Unmarshal([]byte(summaryJSON), &summary); err == nil && len(summary.Topics) > 0 {
			entry.Summary = &summary
		}

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Delete removes one entry. Deleting an absent fingerprint is a no-op.
func (c *CacheDB) Delete(fingerprint string) error {
	_, err := c.db.Exec(`DELETE FROM cache_entries WHERE fingerprint = ?`, fingerprint)
	if err != nil {
		return apperrors.Wrap(err, "cache delete failed")
	}
	return nil
}
