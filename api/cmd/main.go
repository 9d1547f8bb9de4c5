package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flashboard/board-service/internal/audit"
	"github.com/flashboard/board-service/internal/config"
	"github.com/flashboard/board-service/internal/domain"
	"github.com/flashboard/board-service/internal/infrastructure/memory"
	"github.com/flashboard/board-service/internal/infrastructure/postgres"
	"github.com/flashboard/board-service/internal/infrastructure/rabbitmq"
	redisinfra "github.com/flashboard/board-service/internal/infrastructure/redis"
	"github.com/flashboard/board-service/internal/logger"
	"github.com/flashboard/board-service/internal/security"
	"github.com/flashboard/board-service/internal/service"
	"github.com/flashboard/board-service/internal/transport/rest"
)

func main() {
	if err := run(); err != nil {
		logger.Init()
		logger.Logger.Fatal().Err(err).Msg("service exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init()
	log := logger.Logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Stores: postgres when a DSN is configured, in-memory otherwise (dev).
	var (
		itemStore domain.ItemStore
		userStore domain.UserStore
	)
	if cfg.DBDSN != "" {
		pool, perr := pgxpool.New(ctx, cfg.DBDSN)
		if perr != nil {
			return fmt.Errorf("connect postgres: %w", perr)
		}
		defer pool.Close()
		if perr := pool.Ping(ctx); perr != nil {
			return fmt.Errorf("ping postgres: %w", perr)
		}
		if perr := postgres.EnsureSchema(ctx, pool); perr != nil {
			return fmt.Errorf("ensure schema: %w", perr)
		}
		itemStore = postgres.NewItemStore(pool)
		userStore = postgres.NewUserStore(pool)
		log.Info().Msg("postgres stores ready")
	} else {
		itemStore = memory.NewItemStore()
		userStore = memory.NewUserStore()
		log.Warn().Msg("DATABASE_URL not set, using in-memory stores")
	}

	// Event publisher: rabbitmq when configured, recording no-op otherwise.
	var publisher domain.EventPublisher
	if cfg.RabbitURL != "" {
		rmq, rerr := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange, log)
		if rerr != nil {
			return fmt.Errorf("connect rabbitmq: %w", rerr)
		}
		defer rmq.Close()
		publisher = rmq
		log.Info().Str("exchange", cfg.RabbitExchange).Msg("rabbitmq publisher ready")
	} else {
		publisher = memory.NewPublisher()
		log.Warn().Msg("RABBITMQ_URL not set, event publishing disabled")
	}

	var cache domain.CacheRepository
	if cfg.RLEnabled {
		rc := redisinfra.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if perr := rc.Ping(ctx); perr != nil {
			log.Warn().Err(perr).Msg("redis unreachable, rate limiting degraded to fail-open")
		}
		cache = rc
	}

	gate := security.NewTokenGate(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	hasher := security.NewBcryptHasher(0)
	auditLog := audit.New(log)

	boardSvc := service.NewBoardService(itemStore, publisher, auditLog)
	userSvc := service.NewUserService(userStore, hasher, gate)

	deps := rest.RouterDeps{
		Board:    rest.NewBoardHandler(boardSvc),
		Users:    rest.NewUserHandler(userSvc),
		Verifier: gate,
	}
	if cfg.RLEnabled && cache != nil {
		deps.Cache = cache
		deps.RLLimit = cfg.RLLimit
		deps.RLWindow = cfg.RLWindow
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           rest.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.AppEnv).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}
