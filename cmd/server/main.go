// Package main starts the BookMyStyle user-accounts HTTP server.
//
// Startup order: configuration, logger, MongoDB (identities, bookings, salons,
// audit trail), the session store (Redis, or in-memory for local development),
// the audit dispatcher and finally the Echo server. SIGINT and SIGTERM trigger
// a graceful shutdown that drains pending audit events.
//
// @title        BookMyStyle user accounts
// @version      1.0
// @description  Accounts, role-based access and dashboards of the BookMyStyle salon booking platform.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/bookmystyle/user-accounts/docs"
	"github.com/bookmystyle/user-accounts/internal/api"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
	"github.com/bookmystyle/user-accounts/internal/core/service"
	"github.com/bookmystyle/user-accounts/internal/infrastructure/config"
	"github.com/bookmystyle/user-accounts/internal/infrastructure/db/memory"
	mongodb "github.com/bookmystyle/user-accounts/internal/infrastructure/db/mongo"
	redisdb "github.com/bookmystyle/user-accounts/internal/infrastructure/db/redis"
	"github.com/bookmystyle/user-accounts/internal/infrastructure/queue"
	"github.com/bookmystyle/user-accounts/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log := logger.Init(logger.Options{})
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
		File:   cfg.LogFile,
	})
	log.Info().
		Str("env", cfg.Env).
		Str("session_backend", cfg.Session.Backend).
		Bool("access_fail_closed", cfg.Access.FailClosed).
		Msg("configuration loaded")

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, Timeout: cfg.Mongo.Timeout})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("error disconnecting from mongo")
		}
	}()
	if err := ensureIndexes(ctx, db); err != nil {
		return err
	}

	backend, err := openSessionBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer backend.Close()

	// Audit workers outlive the HTTP server so in-flight requests can still
	// record events during shutdown.
	auditCtx, stopAudit := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(
		cfg.Access.AuditWorkers,
		service.NewAuditService(mongodb.NewAuditRepository(db), backend.dedup, log),
		log,
	)
	dispatcher.Start(auditCtx)
	defer func() {
		stopAudit()
		dispatcher.Wait()
	}()

	e := api.NewRouter(api.Dependencies{
		Config:   cfg,
		Mongo:    db,
		Redis:    backend.redis,
		Sessions: backend.sessions,
		Audit:    dispatcher,
		Log:      log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// sessionBackend bundles the session store with the Redis resources that
// come with it. redis and dedup are nil on the memory backend.
type sessionBackend struct {
	redis    *redis.Client
	sessions ports.SessionStore
	dedup    service.DedupChecker
}

func openSessionBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*sessionBackend, error) {
	if cfg.Session.Backend == "memory" {
		log.Warn().Msg("using in-memory session store; sessions are lost on restart")
		return &sessionBackend{sessions: memory.NewSessionStore()}, nil
	}
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return &sessionBackend{
		redis:    rdb,
		sessions: redisdb.NewSessionStore(rdb),
		dedup:    redisdb.NewDedupChecker(rdb),
	}, nil
}

func (b *sessionBackend) Close() {
	if b.redis != nil {
		_ = b.redis.Close()
	}
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, ensure := range []func(context.Context) error{
		mongodb.NewUserRepository(db).EnsureIndexes,
		mongodb.NewBookingRepository(db).EnsureIndexes,
		mongodb.NewSalonRepository(db).EnsureIndexes,
		func(ctx context.Context) error { return mongodb.EnsureAuditIndexes(ctx, db) },
	} {
		if err := ensure(ctx); err != nil {
			return err
		}
	}
	return nil
}
