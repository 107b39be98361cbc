package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jonboulle/clockwork"
	zlog "github.com/rs/zerolog/log"

	"github.com/dealheat/dealheat-go/internal/config"
	"github.com/dealheat/dealheat-go/internal/db"
	"github.com/dealheat/dealheat-go/internal/handler"
	"github.com/dealheat/dealheat-go/internal/metrics"
	"github.com/dealheat/dealheat-go/internal/middleware"
	"github.com/dealheat/dealheat-go/internal/policy"
	"github.com/dealheat/dealheat-go/internal/repository"
	"github.com/dealheat/dealheat-go/internal/router"
	"github.com/dealheat/dealheat-go/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load configuration")
	}

	middleware.InitLogger(cfg.LogLevel, "dealheat-api")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	metrics.Init(pool)

	// Repositories
	voteRepo := repository.NewVoteRepo(pool)
	dealRepo := repository.NewDealRepo(pool)
	userRepo := repository.NewUserRepo(pool)
	analyticsRepo := repository.NewAnalyticsRepo(pool)

	// Services
	policySrc := policy.NewPGSource(pool)
	clock := clockwork.NewRealClock()
	voteSvc := service.NewVoteService(voteRepo, policySrc, cache, clock)
	dealSvc := service.NewDealService(dealRepo, cache)
	userSvc := service.NewUserService(userRepo)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, cache)

	// Ledger worker: listens for vote changes, invalidates caches and
	// reports temperature drift.
	worker := service.NewLedgerWorker(pool, dealRepo, cache, cfg.LedgerBatchWindow)
	go worker.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "DealHeat API",
		ServerHeader: "DealHeat",
	})

	handlers := &router.Handlers{
		Vote:      handler.NewVoteHandler(voteSvc),
		Deal:      handler.NewDealHandler(dealSvc),
		User:      handler.NewUserHandler(userSvc),
		Analytics: handler.NewAnalyticsHandler(analyticsSvc),
		Health:    handler.NewHealthHandler(pool, cache.Client()),
	}
	limiters := &router.Limiters{
		Vote:      middleware.NewVoteRateLimiter(cfg.VoteRateMax, cfg.VoteRateWindow),
		Read:      middleware.NewReadRateLimiter(),
		Analytics: middleware.NewAnalyticsRateLimiter(),
		Freeze:    middleware.NewFreezeRateLimiter(),
	}
	router.Setup(app, handlers, limiters, cfg.CORSOrigins)

	go func() {
		zlog.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Environment).
			Msg("starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Fatal().Err(err).Msg("server stopped")
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM: stop accepting requests, stop the
	// worker, then release the pool and redis client via defers.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info().Msg("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("shutdown error")
	}
}
