package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/allinone-seolbi/site/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := config.Load(config.EnvPathFromArgs(os.Args)); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	cfg := config.Get()
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info().
		Str("addr", cfg.WebhookSinkAddr).
		Int("fail_every", cfg.WebhookSinkFailEvery).
		Msg("starting webhook sink")

	srv := &http.Server{
		Addr:         cfg.WebhookSinkAddr,
		Handler:      SetupRouter(NewSink(cfg.WebhookSinkKeep, cfg.WebhookSinkFailEvery)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down webhook sink")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
