package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/cronjob-sdk/config"
	"github.com/ErlanBelekov/cronjob-sdk/internal/health"
	"github.com/ErlanBelekov/cronjob-sdk/internal/infrastructure/cronjoborg"
	ctxlog "github.com/ErlanBelekov/cronjob-sdk/internal/log"
	"github.com/ErlanBelekov/cronjob-sdk/internal/metrics"
	httptransport "github.com/ErlanBelekov/cronjob-sdk/internal/transport/http"
	"github.com/ErlanBelekov/cronjob-sdk/internal/transport/http/handler"
	"github.com/ErlanBelekov/cronjob-sdk/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := ctxlog.New(os.Stdout, cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	client, err := cronjoborg.New(cronjoborg.Config{
		BaseURL: cfg.APIBaseURL,
		Token:   cfg.APIToken,
		Timeout: cfg.APITimeout(),
	}, logger)
	if err != nil {
		log.Fatalf("cron api client: %v", err)
	}

	cronJobUsecase := usecase.NewCronJobUsecase(client, nil, logger)
	cronJobHandler := handler.NewCronJobHandler(cronJobUsecase, cfg.DemoWebhookURL, logger)

	metrics.Register()
	checker := health.NewChecker(client, logger, prometheus.DefaultRegisterer, health.WithCacheTTL(cfg.HealthCacheTTL()))

	if cfg.AuthEnabled() {
		logger.Info("bearer auth enabled for demo api")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httptransport.NewRouter(logger, cronJobHandler, []byte(cfg.JWTSecret)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server started", "port", cfg.Port)
		return listen(srv)
	})
	g.Go(func() error {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		return listen(metricsSrv)
	})
	g.Go(func() error {
		// Either a signal or a failed listener ends the group.
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(srv.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func listen(s *http.Server) error {
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
