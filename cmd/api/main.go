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

	"github.com/luxbiz/biz-optimizer/config"
	"github.com/luxbiz/biz-optimizer/internal/bootstrap"
	"github.com/luxbiz/biz-optimizer/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Base().WithError(err).Fatal("load config")
	}
	logging.Configure(cfg.App.LogLevel, cfg.App.ServiceName)
	log := logging.Base().WithField("component", "api")
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(context.Background(), cfg)
	if err != nil {
		log.WithError(err).Fatal("bootstrap")
	}
	defer app.Close()

	verifier, err := bootstrap.NewVerifier(ctx, &cfg.Auth)
	if err != nil {
		log.WithError(err).Fatal("auth verifier")
	}

	workersDone := make(chan struct{})
	if cfg.Jobs.Inline {
		app.Sweeper.Start()
		go func() {
			defer close(workersDone)
			app.Runner.Run(ctx)
		}()
		log.WithField("workers", cfg.Jobs.Workers).Info("inline job runner started")
	} else {
		close(workersDone)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           bootstrap.BuildRouter(app, verifier),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Server.Port, "env": cfg.App.Environment}).Info("listening")
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server stopped unexpectedly")
		}
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	if cfg.Jobs.Inline {
		<-app.Sweeper.Stop().Done()
	}
	<-workersDone
	log.Info("stopped")
}
