package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dealheat/dealheat-go/internal/model"
)

type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepo(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetAnalytics aggregates vote counts by direction and identifies the single
// deal with the highest current temperature. Normal read consistency only.
func (r *AnalyticsRepo) GetAnalytics(ctx context.Context) (*model.AnalyticsResponse, error) {
	var resp model.AnalyticsResponse
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE direction = 'hot'),
		       COUNT(*) FILTER (WHERE direction = 'cold')
		FROM votes`).Scan(&resp.TotalVotes, &resp.HotVotes, &resp.ColdVotes)
	if err != nil {
		return nil, err
	}

	var hottest model.HottestDeal
	err = r.pool.QueryRow(ctx, `
		SELECT id, temperature FROM deals
		ORDER BY temperature DESC, id ASC
		LIMIT 1`).Scan(&hottest.DealID, &hottest.Temperature)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		resp.HottestDeal = &hottest
	}

	return &resp, nil
}
