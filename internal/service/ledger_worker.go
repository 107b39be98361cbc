package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/dealheat/dealheat-go/internal/metrics"
	"github.com/dealheat/dealheat-go/internal/repository"
)

// LedgerWorker listens for PostgreSQL NOTIFY on the 'vote_changes' channel
// and batches the follow-up work: cache invalidation for the affected deals
// and a read-only drift check of stored temperature against the ledger sum.
// If 50 votes hit deal X inside one window, the work runs once. The worker
// never writes temperature — the cast transaction is its only writer; drift
// is reported, not repaired.
type LedgerWorker struct {
	pool     *pgxpool.Pool
	deals    *repository.DealRepo
	cache    *CacheService
	batchWin time.Duration

	mu      sync.Mutex
	pending map[int64]struct{} // deal IDs waiting for processing
}

// NewLedgerWorker creates a vote-change follow-up worker.
func NewLedgerWorker(pool *pgxpool.Pool, deals *repository.DealRepo, cache *CacheService, batchWindow time.Duration) *LedgerWorker {
	return &LedgerWorker{
		pool:     pool,
		deals:    deals,
		cache:    cache,
		batchWin: batchWindow,
		pending:  make(map[int64]struct{}),
	}
}

// Start begins listening for vote_changes notifications and processing
// batches. It reconnects with a delay on listen errors and returns when the
// context is cancelled.
func (w *LedgerWorker) Start(ctx context.Context) {
	log.Info().Dur("batch_window", w.batchWin).Msg("ledger-worker: starting")

	for {
		if err := w.listenLoop(ctx); err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("ledger-worker: stopping (context cancelled)")
				return
			}
			log.Warn().Err(err).Msg("ledger-worker: listen error, reconnecting in 5s")
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				log.Info().Msg("ledger-worker: stopping (context cancelled)")
				return
			}
		}
	}
}

// listenLoop acquires a dedicated connection, LISTENs on vote_changes, and
// accumulates notified deal IDs for the flush loop.
func (w *LedgerWorker) listenLoop(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, "LISTEN vote_changes")
	if err != nil {
		return err
	}
	log.Info().Msg("ledger-worker: listening on vote_changes")

	flushCtx, flushCancel := context.WithCancel(ctx)
	defer flushCancel()
	go w.flushLoop(flushCtx)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		dealID, err := strconv.ParseInt(notification.Payload, 10, 64)
		if err != nil {
			log.Warn().Str("payload", notification.Payload).Msg("ledger-worker: malformed notification payload")
			continue
		}

		w.mu.Lock()
		w.pending[dealID] = struct{}{}
		w.mu.Unlock()
	}
}

// flushLoop periodically drains the pending set.
func (w *LedgerWorker) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(w.batchWin)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.flush(ctx)
		case <-ctx.Done():
			// Final flush before exit
			w.flush(context.Background())
			return
		}
	}
}

// flush drains the pending set, invalidates caches, and checks each deal's
// temperature against its ledger sum.
func (w *LedgerWorker) flush(ctx context.Context) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}

	// Swap out the pending map
	batch := w.pending
	w.pending = make(map[int64]struct{})
	w.mu.Unlock()

	checked := 0
	for dealID := range batch {
		if w.cache != nil {
			if err := w.cache.InvalidateDeal(ctx, dealID); err != nil {
				log.Warn().Err(err).Int64("deal_id", dealID).Msg("ledger-worker: cache invalidate failed")
			}
		}

		stored, ledger, drift, err := w.deals.LedgerDrift(ctx, dealID)
		if err != nil {
			log.Warn().Err(err).Int64("deal_id", dealID).Msg("ledger-worker: drift check failed")
			continue
		}
		if drift {
			metrics.Metrics.LedgerDriftTotal.Inc()
			log.Error().
				Int64("deal_id", dealID).
				Int("stored", stored).
				Int("ledger", ledger).
				Msg("ledger-worker: temperature diverged from ledger sum")
		}
		checked++
	}

	if w.cache != nil {
		if err := w.cache.InvalidateAnalytics(ctx); err != nil {
			log.Warn().Err(err).Msg("ledger-worker: analytics cache invalidate failed")
		}
	}

	log.Debug().Int("checked", checked).Int("notified", len(batch)).Msg("ledger-worker: batch complete")
}
