package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bloodlink-api/internal/application/dispatch"
	"github.com/bloodlink-api/internal/config"
	"github.com/bloodlink-api/internal/infrastructure/queue"
	"github.com/bloodlink-api/internal/infrastructure/smtp"
	"github.com/bloodlink-api/internal/infrastructure/sns"
	"github.com/bloodlink-api/internal/pkg/logger"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// The worker delivers OTP codes enqueued by the API when DISPATCH_MODE=queue.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.IsProduction())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.RedisAddr == "" {
		log.Fatal("REDIS_ADDR is required for the worker")
	}

	sms, err := sns.NewSender(context.Background(), cfg)
	if err != nil {
		log.Fatal("sns sender", zap.Error(err))
	}
	direct := dispatch.NewDirect(smtp.NewMailer(cfg), sms)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisQueueDB},
		asynq.Config{
			Concurrency: 10,
			Logger:      log.Sugar(),
		},
	)
	mux := asynq.NewServeMux()
	mux.Handle(queue.TypeOTPDeliver, queue.HandleOTPDeliver(direct, log.Named("worker")))

	log.Info("worker starting", zap.String("redis", cfg.RedisAddr))
	// Run blocks until SIGINT or SIGTERM, then drains in-flight tasks.
	if err := srv.Run(mux); err != nil {
		log.Fatal("worker stopped", zap.Error(err))
	}
}
