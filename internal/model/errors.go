package model

import "errors"

// Error taxonomy for the voting engine. Handlers map these to HTTP status
// codes; everything else is treated as an internal storage failure.
var (
	// ErrDealNotFound: the referenced deal does not exist.
	ErrDealNotFound = errors.New("deal not found")

	// ErrVotingFrozen: an administrator disabled voting on the deal.
	ErrVotingFrozen = errors.New("voting frozen")

	// ErrCooldownActive: the caller changed direction on this deal within the
	// configured cooldown window.
	ErrCooldownActive = errors.New("cooldown active")
)

// IsForbidden reports whether err is one of the policy rejections that map
// to a 403 rather than a server error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrVotingFrozen) || errors.Is(err, ErrCooldownActive)
}
