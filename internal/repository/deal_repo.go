package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dealheat/dealheat-go/internal/model"
)

type DealRepo struct {
	pool *pgxpool.Pool
}

func NewDealRepo(pool *pgxpool.Pool) *DealRepo {
	return &DealRepo{pool: pool}
}

// FindByID returns the deal's temperature slice.
func (r *DealRepo) FindByID(ctx context.Context, dealID int64) (*model.Deal, error) {
	var d model.Deal
	err := r.pool.QueryRow(ctx, `
		SELECT id, author_id, title, temperature, voting_frozen, created_at, updated_at
		FROM deals
		WHERE id = $1`,
		dealID).Scan(&d.ID, &d.AuthorID, &d.Title, &d.Temperature, &d.VotingFrozen, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrDealNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// SetVotingFrozen flips the freeze flag. Idempotent single-field update,
// deliberately outside any cast transaction.
func (r *DealRepo) SetVotingFrozen(ctx context.Context, dealID int64, frozen bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE deals SET voting_frozen = $2, updated_at = NOW()
		WHERE id = $1`,
		dealID, frozen)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDealNotFound
	}
	return nil
}

// LedgerDrift compares a deal's stored temperature against the sum implied by
// the ledger (+1 per hot, -1 per cold). Returns the stored value, the ledger
// sum, and whether they diverge. Read-only: the cast transaction is the only
// writer of temperature.
func (r *DealRepo) LedgerDrift(ctx context.Context, dealID int64) (stored, ledger int, drift bool, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT d.temperature,
		       COALESCE(SUM(CASE WHEN v.direction = 'hot' THEN 1 WHEN v.direction = 'cold' THEN -1 END), 0)
		FROM deals d
		LEFT JOIN votes v ON v.deal_id = d.id
		WHERE d.id = $1
		GROUP BY d.temperature`,
		dealID).Scan(&stored, &ledger)
	if errors.Is(err, pgx.ErrNoRows) {
		// Deal removed since the notification; nothing to check.
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, err
	}
	return stored, ledger, stored != ledger, nil
}
