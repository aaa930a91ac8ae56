package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"musicschool-api/internal/api"
	"musicschool-api/internal/app"
	"musicschool-api/internal/auth"
	"musicschool-api/internal/config"
	"musicschool-api/internal/events"
	"musicschool-api/internal/lock"
	"musicschool-api/internal/repository"
	"musicschool-api/internal/service"
	"musicschool-api/migrations"
)

const tokenTTL = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, migrations.Files)
	if err != nil {
		logger.Fatal("failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}
	if version, err := migrator.Version(ctx); err == nil {
		logger.Info("database migrated", zap.Int64("version", version))
	}
	migrator.Close()

	var locker lock.Locker
	if cfg.RedisAddr != "" {
		redisLock, err := lock.NewRedisLock(cfg.RedisAddr)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisLock.Close()
		locker = redisLock
	} else {
		logger.Warn("REDIS_ADDR not set, using in-process locks")
		locker = lock.NewMemoryLock()
	}

	var publisher events.EventPublisher
	if cfg.NatsURL != "" {
		natsPublisher, err := events.NewNatsPublisher(cfg.NatsURL)
		if err != nil {
			logger.Fatal("failed to connect to nats", zap.Error(err))
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
	} else {
		logger.Warn("NATS_URL not set, events disabled")
		publisher = events.NoopPublisher{}
	}

	slotRepo := repository.NewPostgresSlotRepository(pool)
	sessionRepo := repository.NewPostgresSessionRepository(pool)
	reviewRepo := repository.NewPostgresReviewRepository(pool)
	professorRepo := repository.NewPostgresProfessorRepository(pool)
	instrumentRepo := repository.NewPostgresInstrumentRepository(pool)
	userRepo := repository.NewPostgresUserRepository(pool)

	availabilityService := service.NewAvailabilityService(slotRepo, professorRepo, logger)
	bookingService := service.NewBookingService(slotRepo, sessionRepo, instrumentRepo, professorRepo, locker, publisher, logger)
	reviewService := service.NewReviewService(reviewRepo, sessionRepo, professorRepo, publisher, logger)
	professorService := service.NewProfessorService(professorRepo, instrumentRepo, logger)
	instrumentService := service.NewInstrumentService(instrumentRepo, logger)

	tokens := auth.NewTokenManager(cfg.JWTSecret, tokenTTL)

	handler := api.NewHandler(
		availabilityService,
		bookingService,
		reviewService,
		professorService,
		instrumentService,
		userRepo,
		logger,
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      api.NewRouter(handler, tokens),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("server stopped")
}
