package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shopupgh/shopup-api/internal/cache"
	"github.com/shopupgh/shopup-api/internal/models"
	"github.com/shopupgh/shopup-api/internal/utils"
)

const (
	campusCacheKey = "campuses:active"
	campusCacheTTL = 10 * time.Minute
)

// CampusLister is the data-layer contract for campus reference data.
type CampusLister interface {
	ListActive() ([]models.Campus, error)
}

// CampusService serves the campus reference list with a redis cache in front.
// Campuses change rarely; a stale window of a few minutes is acceptable.
type CampusService struct {
	campuses CampusLister
	redis    *cache.RedisClient
}

// NewCampusService constructs a CampusService. redis may be nil, in which
// case every call hits the store.
func NewCampusService(campuses CampusLister, redis *cache.RedisClient) *CampusService {
	return &CampusService{campuses: campuses, redis: redis}
}

// ListCampuses returns all active campuses. Cache failures fall through to
// the store.
func (s *CampusService) ListCampuses(ctx context.Context) ([]models.Campus, error) {
	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, campusCacheKey); err == nil {
			var campuses []models.Campus
			if err := json.Unmarshal([]byte(raw), &campuses); err == nil {
				return campuses, nil
			}
		}
	}

	campuses, err := s.campuses.ListActive()
	if err != nil {
		log.Error().Err(err).Msg("campus list failed")
		return nil, utils.ErrStore
	}

	if s.redis != nil {
		if raw, err := json.Marshal(campuses); err == nil {
			if err := s.redis.Set(ctx, campusCacheKey, string(raw), campusCacheTTL); err != nil {
				log.Warn().Err(err).Msg("campus cache write failed")
			}
		}
	}
	return campuses, nil
}
