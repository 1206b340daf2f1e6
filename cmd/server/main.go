// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"pharmelo-backend/internal/ai"
	"pharmelo-backend/internal/common/auth"
	"pharmelo-backend/internal/common/config"
	"pharmelo-backend/internal/common/database"
	"pharmelo-backend/internal/common/logger"
	"pharmelo-backend/internal/common/observability"
	"pharmelo-backend/internal/mailer"
	"pharmelo-backend/internal/realtime"
	"pharmelo-backend/internal/server"
	"pharmelo-backend/internal/store"
	"pharmelo-backend/internal/viewmodel"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting pharmelo backend...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("pharmelo-backend")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Change event bus and websocket hub ---
	bus := realtime.NewRedisBus(redisClient.GetClient(), log)
	defer bus.Close()

	hub := realtime.NewHub(bus, log)
	defer hub.Shutdown()

	// --- Storage and server-side view state ---
	st := store.New(pg.GetDB(), bus, log)

	provider := viewmodel.NewConfigProvider(st, log)
	provider.Load(ctx)
	unwatch := provider.Attach(bus)
	defer unwatch()

	roadmapView := viewmodel.NewRoadmapView(st, log)
	if err := roadmapView.Start(ctx, bus); err != nil {
		zapLog.Warn("roadmap view initial fetch failed, serving from store until restart", zap.Error(err))
	}
	defer roadmapView.Stop()

	notificationFeed := viewmodel.NewNotificationFeed(st, log)
	if err := notificationFeed.Start(ctx, bus); err != nil {
		zapLog.Warn("notification feed initial fetch failed, serving from store until restart", zap.Error(err))
	}
	defer notificationFeed.Stop()

	// --- AI gateway ---
	gateway := ai.NewGateway(
		cfg.APIs.GenAI.BaseURL,
		cfg.APIs.GenAI.APIKey,
		cfg.APIs.GenAI.Model,
		config.GetDuration(cfg.APIs.GenAI.Timeout),
		log,
	)

	// --- SES mailer ---
	ml, err := mailer.New(
		ctx,
		cfg.Integrations.AWS.Region,
		cfg.Integrations.AWS.SES.FromEmail,
		cfg.Integrations.AWS.SES.Enabled,
		log,
	)
	if err != nil {
		zapLog.Fatal("mailer init failed", zap.Error(err))
	}
	if ml.Enabled() {
		zapLog.Info("SES mailer enabled", zap.String("from", cfg.Integrations.AWS.SES.FromEmail))
	} else {
		zapLog.Info("SES mailer disabled, campaigns will be recorded without sending")
	}

	// --- Admin auth ---
	authSvc := auth.NewService(
		pg.GetDB(),
		cfg.Auth.JWTSecret,
		config.GetDuration(cfg.Auth.TokenTTL),
		cfg.Auth.BcryptCost,
	)

	srv := server.New(cfg, st, bus, hub, provider, roadmapView, notificationFeed, gateway, ml, authSvc, obs, log)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Router(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("API server listening", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("API server failed", zap.Error(err))
		}
	}()

	// --- Metrics & pprof server ---
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/debug/pprof/", http.DefaultServeMux)
		zapLog.Info("Metrics server listening", zap.Int("port", cfg.Server.MetricsPort))
		if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Server.MetricsPort), mux); err != nil {
			zapLog.Error("Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining connections...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down API server", zap.Error(err))
	}

	zapLog.Info("Pharmelo backend stopped gracefully")
}
