package model

import (
	"time"
)

// Direction is a vote's stance on a deal.
type Direction string

const (
	DirectionHot  Direction = "hot"
	DirectionCold Direction = "cold"
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == DirectionHot || d == DirectionCold
}

// Delta is the temperature contribution of a single vote: +1 hot, -1 cold.
func (d Direction) Delta() int {
	if d == DirectionHot {
		return 1
	}
	return -1
}

// Action is the outcome of a cast against the existing ledger state.
type Action string

const (
	ActionCreated Action = "created"
	ActionRemoved Action = "removed"
	ActionChanged Action = "changed"
)

// Vote represents one user's current stance on one deal. At most one row
// exists per (deal, user) pair; the pair carries a unique constraint in the
// ledger.
type Vote struct {
	ID        int64     `json:"id"`
	DealID    int64     `json:"dealId"`
	UserID    int64     `json:"userId"`
	Direction Direction `json:"direction"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Resolve evaluates the cast state machine: given the caller's existing vote
// direction (nil if none) and the requested direction, it returns the ledger
// action and the signed temperature delta. The karma delta for the deal's
// author is the same value: temperature and karma are the same signed-vote
// accounting applied to the deal and to its author.
//
//	existing  requested  action   delta
//	none      hot        created   +1
//	none      cold       created   -1
//	hot       hot        removed   -1
//	cold      cold       removed   +1
//	hot       cold       changed   -2
//	cold      hot        changed   +2
func Resolve(existing *Direction, requested Direction) (Action, int) {
	if existing == nil {
		return ActionCreated, requested.Delta()
	}
	if *existing == requested {
		return ActionRemoved, -existing.Delta()
	}
	return ActionChanged, 2 * requested.Delta()
}

// CooldownBlocked reports whether a cast must be rejected because the caller
// is changing direction too soon after their last update. Only direction
// changes consult the cooldown window; creating a first vote or
// removing/repeating the same direction is never blocked.
func CooldownBlocked(existing *Direction, requested Direction, lastUpdate time.Time, cooldown time.Duration, now time.Time) bool {
	if existing == nil || *existing == requested {
		return false
	}
	return now.Sub(lastUpdate) < cooldown
}

// VoteRequest is the API request body for casting a vote.
type VoteRequest struct {
	Direction Direction `json:"direction"`
}

// VoteResponse is the API response after a successful cast.
type VoteResponse struct {
	Action      Action `json:"action"`
	Temperature int    `json:"temperature"`
}

// VoteStatusResponse reports the caller's current direction, or null.
type VoteStatusResponse struct {
	Direction *Direction `json:"direction"`
}
