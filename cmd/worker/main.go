// Package main starts the evaluation rules Temporal worker.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/ahrav/go-evalrules/internal/configuration"
	"github.com/ahrav/go-evalrules/internal/identity"
	"github.com/ahrav/go-evalrules/internal/worker"
)

func main() {
	cfg, err := configuration.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, nil); err != nil {
		log.Fatalf("worker failed: %v", err)
	}
}

// run serves until ctx is cancelled. directory resolves acting users; nil
// uses the directory seeded from cfg.Identity.
func run(ctx context.Context, cfg *configuration.Config, directory identity.Resolver) error {
	logger := worker.InitializeLogger(cfg.Observability, os.Stdout)

	loader, closeLoader, err := worker.InitializeSettingsLoader(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeLoader() }()

	sink, closeSink := worker.InitializeEventSink(cfg.Kafka)
	defer func() {
		if err := closeSink(); err != nil {
			logger.Warn("closing event sink", "error", err)
		}
	}()

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    tlog.NewStructuredLogger(logger),
	})
	if err != nil {
		return fmt.Errorf("dial temporal: %w", err)
	}
	defer c.Close()

	w := sdkworker.New(c, cfg.Temporal.TaskQueue, sdkworker.Options{})
	worker.RegisterAll(w, worker.NewDependencies(cfg, loader, sink, directory))

	if err := w.Start(); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}
	logger.Info("Worker started",
		"task_queue", cfg.Temporal.TaskQueue,
		"settings_source", cfg.Settings.Source,
		"events", cfg.Kafka.Enabled(),
		"activity_timeout", cfg.Temporal.ActivityTimeout)

	<-ctx.Done()
	w.Stop()
	logger.Info("Worker stopped")
	return nil
}
