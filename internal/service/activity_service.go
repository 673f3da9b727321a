package service

import (
	"context"

	"summerlit/internal/content"
	"summerlit/internal/models"
	"summerlit/internal/progress"
)

// ActivityService loads day packs and progress for a student, caching pack
// content per student prefix so a session does not re-fetch the bucket on
// every page.
type ActivityService struct {
	loader   *content.Loader
	cache    *content.Cache
	progress *progress.Store
}

// NewActivityService creates a new activity service.
func NewActivityService(loader *content.Loader, cache *content.Cache, progressStore *progress.Store) *ActivityService {
	return &ActivityService{
		loader:   loader,
		cache:    cache,
		progress: progressStore,
	}
}

// Days returns the student's ordered day ids and parsed packs, from cache
// when possible.
func (s *ActivityService) Days(ctx context.Context, studentPrefix string) ([]string, map[string]*models.DayPack, error) {
	if days, packs, ok := s.cache.Get(studentPrefix); ok {
		return days, packs, nil
	}

	days, packs, err := s.loader.LoadDays(ctx, studentPrefix)
	if err != nil {
		return nil, nil, err
	}
	s.cache.Set(studentPrefix, days, packs)
	return days, packs, nil
}

// LoadProgress reads the student's saved progress record.
func (s *ActivityService) LoadProgress(ctx context.Context, studentPrefix string) (models.ProgressRecord, error) {
	return s.progress.Load(ctx, studentPrefix)
}

// SaveProgress writes the student's full progress record back to the
// bucket.
func (s *ActivityService) SaveProgress(ctx context.Context, studentPrefix string, record models.ProgressRecord) error {
	return s.progress.Save(ctx, studentPrefix, record)
}

// Refresh drops the cached packs for a student, forcing a reload on the
// next request.
func (s *ActivityService) Refresh(studentPrefix string) {
	s.cache.Invalidate(studentPrefix)
}
