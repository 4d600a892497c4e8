package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/allinone-seolbi/site/internal/config"
	"github.com/allinone-seolbi/site/internal/processor"
	"github.com/allinone-seolbi/site/internal/webhook"
	"github.com/allinone-seolbi/site/pkg/logger"
	"github.com/allinone-seolbi/site/pkg/prom"
	"github.com/allinone-seolbi/site/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := config.Load(config.EnvPathFromArgs(os.Args))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	cfg := config.Get()

	if err := logger.Configure(cfg.Log()); err != nil {
		logger.Error("failed to configure logger", "error", err)
		return
	}
	defer logger.Sync()
	logger.Info("starting notifier", "version", version, "commit", commit, "date", date)

	if cfg.NotifyWebhookURL == "" {
		// entries are still consumed and acked so the stream doesn't grow
		logger.Warn("NOTIFY_WEBHOOK_URL is not set, queued notifications will be dropped")
	}

	redisAdap, err := redis.NewRedisAdapter("default", cfg.RedisUniversalKeyPrefix, cfg.Redis().Options())
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}
	defer redis.Close("default")

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	promCfg := cfg.Prom()
	if err := prom.Create(hostname, cfg.AppEnv, promCfg.Namespace); err != nil {
		logger.Error("failed to create prometheus metrics", "error", err)
		return
	}
	if promCfg.ListenAddr != "" {
		go prom.ListenAndServer(promCfg.ListenAddr, promCfg.URI)
	}

	client := webhook.NewClient(webhook.Config{
		URL:              cfg.NotifyWebhookURL,
		Username:         cfg.NotifyUsername,
		Timeout:          cfg.NotifyTimeout,
		FailureThreshold: 5,
		Cooldown:         time.Minute,
	})
	defer client.Close()

	queueCfg := cfg.Queue()
	if queueCfg.ConsumerName == "" {
		queueCfg.ConsumerName = hostname
	}

	idempotencyCfg := processor.DefaultIdempotencyConfig()
	idempotencyCfg.MaxRetries = cfg.QueueMaxRetries
	idempotency := processor.NewIdempotencyService(redisAdap, idempotencyCfg)

	service := processor.NewProcessorService(redisAdap, processor.Config{
		Queue:             queueCfg,
		Consumers:         cfg.QueueConsumers,
		Workers:           cfg.NotifyWorkers,
		ProcessingTimeout: cfg.NotifyTimeout * 2,
	})
	service.RegisterProcessor(processor.NewNotificationProcessor(client, idempotency))

	if err := service.Start(); err != nil {
		logger.Error("failed to start notifier", "error", err)
		return
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	service.Stop()
}
