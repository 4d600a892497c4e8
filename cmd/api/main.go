package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/allinone-seolbi/site/internal/config"
	"github.com/allinone-seolbi/site/internal/handlers"
	"github.com/allinone-seolbi/site/internal/notifier"
	"github.com/allinone-seolbi/site/internal/queue"
	"github.com/allinone-seolbi/site/internal/repository"
	"github.com/allinone-seolbi/site/internal/services"
	"github.com/allinone-seolbi/site/internal/web"
	"github.com/allinone-seolbi/site/internal/webhook"
	xhttp "github.com/allinone-seolbi/site/pkg/http"
	"github.com/allinone-seolbi/site/pkg/logger"
	"github.com/allinone-seolbi/site/pkg/pg"
	"github.com/allinone-seolbi/site/pkg/prom"
	"github.com/allinone-seolbi/site/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	notifyDrainTimeout = 10 * time.Second
	webhookFailures    = 5
	webhookCooldown    = time.Minute
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
	logger.Info("starting api", "app", cfg.AppName, "version", version, "commit", commit, "date", date)

	db, err := pg.CreateReadWrite(cfg.PostgresRead(), cfg.PostgresWrite(), cfg.PostgresDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}
	defer db.Close()

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

	health := services.NewHealthService().Register("postgres", db)

	var (
		notify   services.Notifier
		shutdown []func()
	)
	switch {
	case cfg.NotifyMode == config.NotifyModeQueue:
		redisAdap, err := redis.NewRedisAdapter("default", cfg.RedisUniversalKeyPrefix, cfg.Redis().Options())
		if err != nil {
			logger.Error("failed connecting to redis", "error", err)
			return
		}
		shutdown = append(shutdown, func() { _ = redis.Close("default") })
		health.Register("redis", redisAdap)

		q, err := queue.NewQueue(redisAdap, cfg.Queue())
		if err != nil {
			logger.Error("failed creating notification queue", "error", err)
			return
		}
		notify = notifier.NewQueuePublisher(q)
		logger.Info("contact notifications go through the queue", "stream", q.Config().Name)

	case cfg.NotifyWebhookURL == "":
		notify = notifier.Noop{}
		logger.Warn("NOTIFY_WEBHOOK_URL is not set, contact notifications are disabled")

	default:
		client := webhook.NewClient(webhook.Config{
			URL:              cfg.NotifyWebhookURL,
			Username:         cfg.NotifyUsername,
			Timeout:          cfg.NotifyTimeout,
			FailureThreshold: webhookFailures,
			Cooldown:         webhookCooldown,
		})
		dispatcher := notifier.NewDispatcher(client, notifier.DispatcherConfig{
			Workers: cfg.NotifyWorkers,
			Buffer:  cfg.NotifyBuffer,
			Timeout: cfg.NotifyTimeout,
		})
		dispatcher.Start()
		shutdown = append(shutdown, func() {
			dispatcher.Stop(notifyDrainTimeout)
			client.Close()
		})
		notify = dispatcher
	}

	tokens, err := services.NewTokenIssuer(cfg.AdminTokenSecret, cfg.AdminTokenTTL)
	if err != nil {
		logger.Error("failed to create admin token issuer", "error", err)
		return
	}
	if cfg.AdminTokenSecret == "" {
		logger.Warn("ADMIN_TOKEN_SECRET is not set, admin sessions end when the process restarts")
	}

	renderer := web.NewRenderer(web.NewContent(cfg.SiteName, cfg.SiteChatURL))

	// services
	contactService := services.NewContactService(repository.NewContactRepository(db), notify)
	authService := services.NewAuthService(services.AuthConfig{
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
	}, tokens)
	gate := handlers.NewAdminGate(authService, cfg.AdminCookieSecure)

	s := xhttp.NewServer(xhttp.DefaultServerOption.Apply(cfg.HTTP()))
	s.Server.Name = cfg.AppName
	s.Use(xhttp.RecoverMiddleware)
	s.Use(xhttp.RequestIDMiddleware)
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(prom.HTTPMiddleware)
	s.Use(xhttp.SecurityHeadersMiddleware)
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(s.RequestTimeout()))

	handlers.RegisterPageRoutes(s.Router, handlers.NewPageHandler(contactService, authService, gate, renderer))

	api := s.Router.Group("/api")
	handlers.RegisterContactRoutes(api, handlers.NewContactHandler(contactService), gate)
	handlers.RegisterAuthRoutes(api, handlers.NewAuthHandler(authService))
	handlers.RegisterHealthRoutes(api, handlers.NewHealthHandler(health))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(cfg.HttpListenAddr); err != nil {
			logger.Error("error in running http-server", "error", err)
			c <- syscall.SIGTERM
		}
	}()

	<-c
	s.Shutdown()
	for _, fn := range shutdown {
		fn()
	}
	logger.Info("api stopped")
}
