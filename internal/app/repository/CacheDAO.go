package repository

import "clipnotes/internal/app/model"

// CacheDAO is the artifact cache: a durable map from fingerprint to the
// transcript/summary pair of a fully successful run.
//
// Lookup returns (nil, nil) on a miss. A corrupt entry is reported per
// artifact: the readable half of the entry is returned and the corrupt half
// comes back nil, so a run can re-enter the pipeline at the summarization
// stage instead of re-transcribing. Corruption never fails a lookup.
//
// Store persists both artifacts atomically; a reader can never observe a
// half-written entry. Storing an existing fingerprint is an idempotent
// overwrite.
//
// There is no eviction, size bound or TTL.
type CacheDAO interface {
	Lookup(fingerprint string) (*model.CacheEntry, error)

	Store(entry *model.CacheEntry) error

	// List returns all entries ordered by creation time, newest first, for
	// display of previously processed videos.
	List() ([]*model.CacheEntry, error)

	Delete(fingerprint string) error

	Close() error
}
