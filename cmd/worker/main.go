package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/luxbiz/biz-optimizer/config"
	"github.com/luxbiz/biz-optimizer/internal/bootstrap"
	"github.com/luxbiz/biz-optimizer/internal/platform/logging"
)

const usage = "usage: worker <run|sweep>"

// worker runs background jobs outside the API process. "run" drains the
// queue until interrupted; "sweep" requeues stale jobs once and exits.
func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) != 1 || (args[0] != "run" && args[0] != "sweep") {
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Base().WithError(err).Error("load config")
		return 1
	}
	logging.Configure(cfg.App.LogLevel, cfg.App.ServiceName+"-worker")
	log := logging.Base().WithField("component", "worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(context.Background(), cfg)
	if err != nil {
		log.WithError(err).Error("bootstrap")
		return 1
	}
	defer app.Close()

	if args[0] == "sweep" {
		n, err := app.Sweeper.Sweep(ctx)
		if err != nil {
			log.WithError(err).Error("sweep failed")
			return 1
		}
		log.WithField("requeued", n).Info("sweep finished")
		return 0
	}

	app.Sweeper.Start()
	log.WithField("workers", cfg.Jobs.Workers).Info("job runner started")
	app.Runner.Run(ctx)
	<-app.Sweeper.Stop().Done()
	log.Info("job runner stopped")
	return 0
}
