package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dealheat/dealheat-go/internal/model"
)

type VoteRepo struct {
	pool *pgxpool.Pool
}

func NewVoteRepo(pool *pgxpool.Pool) *VoteRepo {
	return &VoteRepo{pool: pool}
}

// CastResult is the outcome of one cast transaction.
type CastResult struct {
	Action      model.Action
	Temperature int
}

// CastVote runs the entire cast as one transaction: the deal row is locked
// FOR UPDATE for the duration, so concurrent casts on the same deal serialize
// around the temperature update, and the (deal_id, user_id) unique constraint
// serializes concurrent casts by the same user. The ledger write, the
// temperature update and the author karma update commit together or not at
// all.
//
// cooldown and now are supplied by the caller: the policy value is read once
// per cast, and the clock is injected for testability.
func (r *VoteRepo) CastVote(ctx context.Context, dealID, userID int64, requested model.Direction, cooldown time.Duration, now time.Time) (*CastResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock the deal row with mutating intent.
	var authorID int64
	var frozen bool
	err = tx.QueryRow(ctx, `
		SELECT author_id, voting_frozen FROM deals
		WHERE id = $1
		FOR UPDATE`,
		dealID).Scan(&authorID, &frozen)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrDealNotFound
	}
	if err != nil {
		return nil, err
	}
	if frozen {
		return nil, model.ErrVotingFrozen
	}

	// Read the caller's current ledger row, if any.
	var existing *model.Direction
	var lastUpdate time.Time
	var dir model.Direction
	err = tx.QueryRow(ctx, `
		SELECT direction, updated_at FROM votes
		WHERE deal_id = $1 AND user_id = $2`,
		dealID, userID).Scan(&dir, &lastUpdate)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		existing = &dir
	}

	if model.CooldownBlocked(existing, requested, lastUpdate, cooldown, now) {
		return nil, fmt.Errorf("%w: direction change within %s of last update", model.ErrCooldownActive, cooldown)
	}

	action, delta := model.Resolve(existing, requested)

	switch action {
	case model.ActionCreated:
		_, err = tx.Exec(ctx, `
			INSERT INTO votes (deal_id, user_id, direction, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)`,
			dealID, userID, requested, now)
	case model.ActionRemoved:
		_, err = tx.Exec(ctx, `
			DELETE FROM votes WHERE deal_id = $1 AND user_id = $2`,
			dealID, userID)
	case model.ActionChanged:
		_, err = tx.Exec(ctx, `
			UPDATE votes SET direction = $3, updated_at = $4
			WHERE deal_id = $1 AND user_id = $2`,
			dealID, userID, requested, now)
	}
	if err != nil {
		return nil, err
	}

	var temperature int
	err = tx.QueryRow(ctx, `
		UPDATE deals SET temperature = temperature + $2, updated_at = $3
		WHERE id = $1
		RETURNING temperature`,
		dealID, delta, now).Scan(&temperature)
	if err != nil {
		return nil, err
	}

	// Karma mirrors the temperature delta, applied to the deal's author.
	// Self-votes move temperature but never karma.
	if authorID != userID {
		var karma int64
		err = tx.QueryRow(ctx, `
			UPDATE users SET karma = karma + $2, updated_at = $3
			WHERE id = $1
			RETURNING karma`,
			authorID, delta, now).Scan(&karma)
		if err != nil {
			return nil, err
		}

		_, err = tx.Exec(ctx, `UPDATE users SET level = $2 WHERE id = $1`,
			authorID, model.LevelFor(karma))
		if err != nil {
			return nil, err
		}
	}

	// The votes trigger notifies on insert/update; deletes notify here.
	if action == model.ActionRemoved {
		_, err = tx.Exec(ctx, `SELECT pg_notify('vote_changes', $1::text)`, dealID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &CastResult{Action: action, Temperature: temperature}, nil
}

// GetStatus returns the caller's current direction for a deal, or nil if the
// caller has no vote. Read-only; no transaction needed.
func (r *VoteRepo) GetStatus(ctx context.Context, dealID, userID int64) (*model.Direction, error) {
	var dir model.Direction
	err := r.pool.QueryRow(ctx, `
		SELECT direction FROM votes
		WHERE deal_id = $1 AND user_id = $2`,
		dealID, userID).Scan(&dir)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dir, nil
}
