package policy

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// DefaultCooldownHours applies when the backing store has no value or cannot
// be reached. A vote cast never fails because the policy store is down.
const DefaultCooldownHours = 24

const cooldownKey = "vote_cooldown_hours"

// Source exposes the named policy values the voting engine consumes. One
// typed accessor per key rather than a generic key/value blob.
type Source interface {
	// CooldownHours returns the minimum time a user must wait before
	// switching their vote direction on the same deal.
	CooldownHours(ctx context.Context) time.Duration
}

// PGSource reads policy values from the settings table on every call, so
// changes take effect immediately without a restart.
type PGSource struct {
	pool *pgxpool.Pool
}

func NewPGSource(pool *pgxpool.Pool) *PGSource {
	return &PGSource{pool: pool}
}

func (s *PGSource) CooldownHours(ctx context.Context) time.Duration {
	var raw string
	err := s.pool.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, cooldownKey).Scan(&raw)
	if err != nil {
		// Missing row and unreachable store both fall back to the default.
		return DefaultCooldownHours * time.Hour
	}

	hours, err := strconv.Atoi(raw)
	if err != nil || hours < 0 {
		log.Warn().Str("key", cooldownKey).Str("value", raw).Msg("policy: invalid setting, using default")
		return DefaultCooldownHours * time.Hour
	}
	return time.Duration(hours) * time.Hour
}

// Static is a fixed-value Source for tests and for running without a
// settings table.
type Static struct {
	Cooldown time.Duration
}

func (s Static) CooldownHours(ctx context.Context) time.Duration {
	return s.Cooldown
}
