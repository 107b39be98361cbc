package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/dealheat/dealheat-go/internal/metrics"
	"github.com/dealheat/dealheat-go/internal/model"
	"github.com/dealheat/dealheat-go/internal/policy"
	"github.com/dealheat/dealheat-go/internal/repository"
)

// maxCastAttempts bounds the internal retry on transient transaction
// conflicts before the failure is surfaced to the caller.
const maxCastAttempts = 3

type VoteService struct {
	repo   *repository.VoteRepo
	policy policy.Source
	cache  *CacheService
	clock  clockwork.Clock
}

func NewVoteService(repo *repository.VoteRepo, policySrc policy.Source, cache *CacheService, clock clockwork.Clock) *VoteService {
	return &VoteService{
		repo:   repo,
		policy: policySrc,
		cache:  cache,
		clock:  clock,
	}
}

// Cast processes one vote cast. The cooldown policy is read fresh on every
// call so policy changes apply immediately. Transient conflicts (two casts
// contending for the same deal or the same (user, deal) pair) are retried a
// bounded number of times; policy rejections and not-found are surfaced
// directly.
func (s *VoteService) Cast(ctx context.Context, dealID, userID int64, direction model.Direction) (*model.VoteResponse, error) {
	if !direction.Valid() {
		return nil, fmt.Errorf("invalid direction: %s", direction)
	}

	cooldown := s.policy.CooldownHours(ctx)

	var result *repository.CastResult
	var err error
	for attempt := 1; attempt <= maxCastAttempts; attempt++ {
		result, err = s.repo.CastVote(ctx, dealID, userID, direction, cooldown, s.clock.Now().UTC())
		if err == nil {
			break
		}
		if !IsTransientConflict(err) {
			return nil, err
		}

		metrics.Metrics.VoteConflictsTotal.Inc()
		log.Warn().Err(err).
			Int64("deal_id", dealID).
			Int("attempt", attempt).
			Msg("vote: transient conflict, retrying")
	}
	if err != nil {
		// Retries exhausted: reclassified as a generic storage failure.
		return nil, fmt.Errorf("cast failed after %d attempts: %w", maxCastAttempts, err)
	}

	// The ledger worker also invalidates on notify; doing it inline keeps
	// the caller's next read fresh without waiting for the batch window.
	if s.cache != nil {
		if err := s.cache.InvalidateDeal(ctx, dealID); err != nil {
			log.Warn().Err(err).Int64("deal_id", dealID).Msg("vote: cache invalidate failed")
		}
		if err := s.cache.InvalidateAnalytics(ctx); err != nil {
			log.Warn().Err(err).Msg("vote: analytics cache invalidate failed")
		}
	}

	metrics.Metrics.VotesTotal.WithLabelValues(string(result.Action), string(direction)).Inc()

	return &model.VoteResponse{
		Action:      result.Action,
		Temperature: result.Temperature,
	}, nil
}

// Status returns the caller's current direction for a deal, or null.
func (s *VoteService) Status(ctx context.Context, dealID, userID int64) (*model.VoteStatusResponse, error) {
	dir, err := s.repo.GetStatus(ctx, dealID, userID)
	if err != nil {
		return nil, err
	}
	return &model.VoteStatusResponse{Direction: dir}, nil
}

// Postgres error codes that signal a transient conflict between concurrent
// cast transactions.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
)

// IsTransientConflict reports whether err is a conflict between concurrent
// transactions that a retry can resolve: serialization failure, deadlock, or
// a unique violation on the votes (deal_id, user_id) pair when two casts by
// the same user race past each other's ledger read.
func IsTransientConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgSerializationFailure, pgDeadlockDetected:
		return true
	case pgUniqueViolation:
		return strings.Contains(pgErr.ConstraintName, "votes")
	}
	return false
}
