package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dealheat/dealheat-go/internal/metrics"
	"github.com/dealheat/dealheat-go/internal/model"
	"github.com/dealheat/dealheat-go/internal/repository"
)

type DealService struct {
	repo  *repository.DealRepo
	cache *CacheService
}

func NewDealService(repo *repository.DealRepo, cache *CacheService) *DealService {
	return &DealService{repo: repo, cache: cache}
}

// Get returns a deal's temperature slice, cache-aside.
func (s *DealService) Get(ctx context.Context, dealID int64) (*model.DealResponse, error) {
	if s.cache != nil {
		if data, err := s.cache.GetDeal(ctx, dealID); err == nil && data != nil {
			var resp model.DealResponse
			if err := json.Unmarshal(data, &resp); err == nil {
				metrics.Metrics.CacheHits.Inc()
				return &resp, nil
			}
		}
		metrics.Metrics.CacheMisses.Inc()
	}

	d, err := s.repo.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	resp := &model.DealResponse{
		DealID:       d.ID,
		Temperature:  d.Temperature,
		VotingFrozen: d.VotingFrozen,
	}

	if s.cache != nil {
		if err := s.cache.SetDeal(ctx, dealID, resp); err != nil {
			log.Warn().Err(err).Int64("deal_id", dealID).Msg("deal: cache set failed")
		}
	}

	return resp, nil
}

// SetFrozen flips the deal's freeze flag. Idempotent; a separate single-field
// update outside any cast transaction.
func (s *DealService) SetFrozen(ctx context.Context, dealID int64, frozen bool) error {
	if err := s.repo.SetVotingFrozen(ctx, dealID, frozen); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateDeal(ctx, dealID); err != nil {
			log.Warn().Err(err).Int64("deal_id", dealID).Msg("deal: cache invalidate failed")
		}
	}
	return nil
}
