package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dealheat/dealheat-go/internal/metrics"
	"github.com/dealheat/dealheat-go/internal/model"
	"github.com/dealheat/dealheat-go/internal/repository"
)

type AnalyticsService struct {
	repo  *repository.AnalyticsRepo
	cache *CacheService
}

func NewAnalyticsService(repo *repository.AnalyticsRepo, cache *CacheService) *AnalyticsService {
	return &AnalyticsService{repo: repo, cache: cache}
}

// Get returns aggregate vote counts and the hottest deal, cache-aside with a
// short TTL.
func (s *AnalyticsService) Get(ctx context.Context) (*model.AnalyticsResponse, error) {
	if s.cache != nil {
		if data, err := s.cache.GetAnalytics(ctx); err == nil && data != nil {
			var resp model.AnalyticsResponse
			if err := json.Unmarshal(data, &resp); err == nil {
				metrics.Metrics.CacheHits.Inc()
				return &resp, nil
			}
		}
		metrics.Metrics.CacheMisses.Inc()
	}

	resp, err := s.repo.GetAnalytics(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetAnalytics(ctx, resp); err != nil {
			log.Warn().Err(err).Msg("analytics: cache set failed")
		}
	}

	return resp, nil
}
