// cmd/server/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"hiring-screener/internal/clients/openai"
	"hiring-screener/internal/clients/sheets"
	"hiring-screener/internal/clients/typeform"
	"hiring-screener/internal/common/config"
	"hiring-screener/internal/common/database"
	"hiring-screener/internal/common/logger"
	"hiring-screener/internal/common/observability"
	"hiring-screener/internal/notify"
	"hiring-screener/internal/pipeline"
	"hiring-screener/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting hiring screener",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name, cfg.Observability.JaegerEndpoint)
	defer obs.Shutdown()

	ctx := context.Background()

	oracle := openai.NewClient(cfg.OpenAI, log)
	forms := typeform.NewClient(cfg.Typeform, log)

	rows, err := sheets.NewClient(ctx, cfg.Sheets, log)
	if err != nil {
		zapLog.Fatal("sheets client failed", zap.Error(err))
	}

	emailSender, err := notify.NewEmailSender(ctx, cfg.Notifications, log)
	if err != nil {
		zapLog.Fatal("email provider setup failed", zap.Error(err))
	}
	alerts, err := notify.NewSNSPublisher(ctx, cfg.Notifications.AWS, log)
	if err != nil {
		zapLog.Fatal("sns publisher setup failed", zap.Error(err))
	}
	notifier := notify.New(cfg.Notifications, emailSender, alerts, log)

	var dedup *server.Deduper
	if cfg.Redis.Enabled() {
		redisClient, err := database.NewRedis(cfg.Redis)
		if err != nil {
			zapLog.Fatal("redis client failed", zap.Error(err))
		}
		if err := redisClient.Ping(ctx); err != nil {
			zapLog.Fatal("redis unreachable", zap.Error(err))
		}
		defer redisClient.Close()
		dedup = server.NewDeduper(redisClient, cfg.Redis.DedupExpiry(), log)
		zapLog.Info("redis connected, webhook dedup enabled")
	} else {
		zapLog.Info("redis not configured, webhook dedup disabled")
	}

	p := pipeline.New(*cfg, oracle, rows, forms, notifier, obs, log)
	handlers := server.NewHandlers(p, dedup, log)
	srv := server.New(cfg.Server, handlers, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	case sig := <-stop:
		zapLog.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}

	zapLog.Info("hiring screener stopped")
}
