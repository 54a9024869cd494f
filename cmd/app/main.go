package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/talari-hunar/boxoffice/config"
	"github.com/talari-hunar/boxoffice/internal/bootstrap"
	"github.com/talari-hunar/boxoffice/internal/hub"
	"github.com/talari-hunar/boxoffice/internal/kafka"
	"github.com/talari-hunar/boxoffice/internal/service/coordinator"
	"github.com/talari-hunar/boxoffice/internal/store"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var st store.Store
	switch cfg.Store.Backend {
	case "redis":
		st = store.NewRedisStore(cfg.Redis, logger)
	case "file":
		st = store.NewFileStore(cfg.Store.DataDir, logger)
	default:
		logger.Fatalf("unknown store backend %q", cfg.Store.Backend)
	}

	broadcast := hub.New(cfg.Realtime.ClientBuffer, logger)
	go broadcast.Run(ctx, time.Duration(cfg.Realtime.HeartbeatSeconds)*time.Second)

	opts := []coordinator.Option{
		coordinator.WithSaveTimeout(time.Duration(cfg.Store.SaveTimeoutSeconds) * time.Second),
	}
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.EventsTopic != "" {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		opts = append(opts, coordinator.WithEventMirror(producer, cfg.Kafka.EventsTopic))
	}

	svc, err := coordinator.New(ctx, st, broadcast, logger, opts...)
	if err != nil {
		logger.WithError(err).Fatal("initialize reservation core")
	}

	if err := bootstrap.Run(ctx, cfg, svc, broadcast, logger); err != nil {
		logger.WithError(err).Fatal("server error")
	}
}
