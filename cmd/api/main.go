package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leadhub/lead-tracker/internal/api"
	"github.com/leadhub/lead-tracker/internal/core/service"
	"github.com/leadhub/lead-tracker/internal/infrastructure/config"
	"github.com/leadhub/lead-tracker/internal/infrastructure/db/postgres"
	"github.com/leadhub/lead-tracker/internal/infrastructure/db/redis"
	"github.com/leadhub/lead-tracker/internal/infrastructure/mail"
	"github.com/leadhub/lead-tracker/internal/infrastructure/queue"
	"github.com/leadhub/lead-tracker/internal/infrastructure/ws"
	"github.com/leadhub/lead-tracker/migrations"
	"github.com/leadhub/lead-tracker/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}
	jwtTTL, err := time.ParseDuration(cfg.JWTTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid JWT_TTL")
	}

	// --- Storage ---
	pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer pool.Close()

	if err := postgres.Migrate(cfg.Postgres.DSN, migrations.FS); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories ---
	userRepo := postgres.NewUserRepository(pool)
	leadRepo := postgres.NewLeadRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)

	// --- Side-effect plumbing ---
	mailer := mail.NewMailer(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, log)
	dispatcher := queue.NewDispatcher(cfg.NotificationWorkers, mailer, log)
	dispatcher.Start(ctx)

	broadcaster := redis.NewBroadcaster(rdb, log)

	hub := ws.NewHub(log)
	sub := redis.Subscribe(ctx, rdb)
	defer sub.Close()
	go hub.Run(ctx, sub)

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, jwtTTL)
	leadService := service.NewLeadService(leadRepo, activityRepo, userRepo, dispatcher, broadcaster, log)
	activityService := service.NewActivityService(activityRepo, leadRepo, userRepo, dispatcher, broadcaster, log)
	statsService := service.NewStatsService(statsRepo, activityRepo, userRepo, log)

	e := api.NewRouter(api.Dependencies{
		AuthService:     authService,
		LeadService:     leadService,
		ActivityService: activityService,
		StatsService:    statsService,
		UserRepo:        userRepo,
		Hub:             hub,
		Pool:            pool,
		Redis:           rdb,
		Log:             log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
