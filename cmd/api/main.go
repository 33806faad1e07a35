package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/jitendra20661/cbct-fyp/cmd/mainconfig"
	"github.com/jitendra20661/cbct-fyp/internal/api/router"
	"github.com/jitendra20661/cbct-fyp/internal/appointments"
	"github.com/jitendra20661/cbct-fyp/internal/categories"
	appconfig "github.com/jitendra20661/cbct-fyp/internal/config"
	"github.com/jitendra20661/cbct-fyp/internal/doctors"
	"github.com/jitendra20661/cbct-fyp/internal/observability/metrics"
	"github.com/jitendra20661/cbct-fyp/internal/payments"
	"github.com/jitendra20661/cbct-fyp/internal/users"
	"github.com/jitendra20661/cbct-fyp/internal/voice"
	"github.com/jitendra20661/cbct-fyp/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic booking API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		logger.Error("database not reachable", "error", err)
		os.Exit(1)
	}

	redisClient := newRedisClient(ctx, cfg, logger)

	reg := prometheus.NewRegistry()
	apiMetrics := metrics.NewAPIMetrics(reg)

	// Repositories
	userRepo := users.NewSQLRepository(db)
	doctorRepo := doctors.NewSQLRepository(db)
	apptRepo := appointments.NewSQLRepository(db)

	var categoryRepo categories.Repository = categories.NewSQLRepository(db)
	if redisClient != nil {
		categoryRepo = categories.NewCachedRepository(categoryRepo, redisClient, cfg.CategoryCacheTTL, logger)
	}

	// Doctor profile images go to S3; fall back to in-memory storage when no
	// bucket is configured (local development).
	var imageStore doctors.ImageStore = doctors.NewMemoryImageStore()
	if cfg.ImageBucket != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		s3Client := mainconfig.NewS3Client(awsCfg, cfg.AWSEndpointOverride)
		imageStore = doctors.NewS3ImageStore(s3Client, cfg.ImageBucket, cfg.ImageBaseURL, logger)
	}

	// Voice call dispatch
	callQueue := voice.NewMemoryQueue(cfg.VoiceQueueBuffer)
	callTracker := voice.NewTracker()
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	for i := 0; i < cfg.VoiceWorkerCount; i++ {
		worker := voice.NewWorker(callQueue, callTracker, apiMetrics, logger, 0)
		go worker.Run(workerCtx)
	}

	// Handlers
	tokens := users.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	usersHandler := users.NewHandler(userRepo, tokens, apiMetrics, logger)
	categoriesHandler := categories.NewHandler(categoryRepo, logger)
	doctorsHandler := doctors.NewHandler(doctorRepo, categoryRepo, imageStore, logger)
	appointmentsHandler := appointments.NewHandler(apptRepo, doctorRepo, apiMetrics, logger)
	voiceHandler := voice.NewHandler(callQueue, callTracker, apptRepo, apiMetrics, logger)

	var paymentsHandler *payments.Handler
	if cfg.AllowFakePayments {
		provider := payments.NewFakeProvider(logger)
		paymentsHandler = payments.NewHandler(provider, apptRepo, cfg.DepositAmountCents, apiMetrics, logger)
	} else {
		logger.Warn("payments disabled: no provider configured and fake payments not allowed")
	}

	r := router.New(&router.Config{
		Logger:              logger,
		UsersHandler:        usersHandler,
		CategoriesHandler:   categoriesHandler,
		DoctorsHandler:      doctorsHandler,
		AppointmentsHandler: appointmentsHandler,
		PaymentsHandler:     paymentsHandler,
		VoiceHandler:        voiceHandler,
		TokenVerifier:       tokens,
		AdminAuthSecret:     cfg.AdminJWTSecret,
		MetricsHandler:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	logger.Info("server exited")
}

// newRedisClient connects the category cache. Redis is optional; when it is
// absent the API serves straight from Postgres.
func newRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *redis.Client {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, category cache disabled", "error", err)
		return nil
	}
	return client
}
