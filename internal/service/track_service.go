package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/mentor-api/internal/models"
	appErrors "github.com/noah-isme/mentor-api/pkg/errors"
)

const (
	trackCachePrefix    = "tracks:"
	activeTrackCacheKey = trackCachePrefix + "active"
)

type trackReader interface {
	ListActive(ctx context.Context) ([]models.Track, error)
	ListMentoredByUser(ctx context.Context, userID string) ([]models.Track, error)
}

// TrackService exposes the track catalog and a mentor's tracks.
type TrackService struct {
	repo   trackReader
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
}

// NewTrackService constructs the service. cache may be nil.
func NewTrackService(repo trackReader, cache *CacheService, ttl time.Duration, logger *zap.Logger) *TrackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrackService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// List returns the active track catalog and whether it was served from cache.
func (s *TrackService) List(ctx context.Context) ([]models.Track, bool, error) {
	var cached []models.Track
	if hit, err := s.cache.Get(ctx, activeTrackCacheKey, &cached); err == nil && hit {
		return cached, true, nil
	}

	tracks, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tracks")
	}
	if tracks == nil {
		tracks = []models.Track{}
	}
	if err := s.cache.Set(ctx, activeTrackCacheKey, tracks, s.ttl); err != nil {
		s.logger.Warn("cache track catalog", zap.Error(err))
	}
	return tracks, false, nil
}

// ListMentored returns the tracks the user mentors. Not cached since mentorships change at any time.
func (s *TrackService) ListMentored(ctx context.Context, userID string) ([]models.Track, error) {
	tracks, err := s.repo.ListMentoredByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list mentored tracks")
	}
	if tracks == nil {
		tracks = []models.Track{}
	}
	return tracks, nil
}

// InvalidateCatalog drops cached catalog entries.
func (s *TrackService) InvalidateCatalog(ctx context.Context) error {
	return s.cache.Invalidate(ctx, trackCachePrefix)
}
