package services

import (
	apperrors "clipnotes/internal/app/errors"
	"clipnotes/internal/app/model"
	"clipnotes/internal/app/repository"
)

// ErrEntryNotFound is returned for fingerprints with no cached artifacts.
var ErrEntryNotFound = apperrors.New("cache entry not found")

// CacheService is the read side of the artifact cache for redisplay.
type CacheService interface {
	List() ([]*model.CacheEntry, error)
	Get(fingerprint string) (*model.CacheEntry, error)
	Delete(fingerprint string) error
}

type cacheService struct {
	dao repository.CacheDAO
}

// NewCacheService wraps the cache DAO for the HTTP layer.
func NewCacheService(dao repository.CacheDAO) CacheService {
	return &cacheService{dao: dao}
}

func (s *cacheService) List() ([]*model.CacheEntry, error) {
	return s.dao.List()
}

func (s *cacheService) Get(fingerprint string) (*model.CacheEntry, error) {
	entry, err := s.dao.Lookup(fingerprint)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}
	return entry, nil
}

func (s *cacheService) Delete(fingerprint string) error {
	return s.dao.Delete(fingerprint)
}
