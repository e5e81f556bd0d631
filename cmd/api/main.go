package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skyproperties/sky-backend/config"
	"github.com/skyproperties/sky-backend/internal/bootstrap"
	"github.com/skyproperties/sky-backend/internal/logging"
	"github.com/skyproperties/sky-backend/internal/maintenance"
)

const serviceName = "sky-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	logging.Init(serviceName, cfg.App.LogLevel, cfg.App.LogFormat)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stack, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect backends")
	}
	defer func() {
		if err := stack.Close(); err != nil {
			logrus.WithError(err).Warn("closing backends")
		}
	}()

	sweeper := maintenance.NewSweeper(stack.Gateway.Docs, stack.Gateway.Blobs, cfg.Sweeper.GracePeriod)
	scheduler := maintenance.NewScheduler(cfg.Sweeper.Schedule, sweeper)
	if err := scheduler.Start(ctx); err != nil {
		logrus.WithError(err).Fatal("failed to start sweep scheduler")
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		LoginRate:      cfg.Auth.LoginRatePerIP,
		LoginBurst:     cfg.Auth.LoginBurst,
		Stack:          stack,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"port":        cfg.Server.Port,
			"environment": cfg.App.Environment,
			"version":     cfg.App.Version,
		}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
}
