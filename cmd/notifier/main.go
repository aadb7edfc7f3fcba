package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"subscription_expiry_notifier/internal/bootstrap"
	"subscription_expiry_notifier/internal/infra/config"
	"subscription_expiry_notifier/internal/infra/logger"
	"subscription_expiry_notifier/internal/infra/scheduler"
)

func main() {
	once := flag.Bool("once", false, "run a single notification pass and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	mainLogger := logger.Component("main")

	mainLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Backend: %s, Transport: %s",
		cfg.LogLevel, cfg.Environment, cfg.DirectoryBackend, cfg.MailTransport)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := bootstrap.New(ctx, cfg, logger.Component("expiry_notifier"))
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not initialize expiry notification service")
	}
	defer svc.Close()

	notifScheduler := scheduler.NewExpiryScheduler(svc, logger.Component("scheduler"), cfg.CronSpec, cfg.JobTimeout)

	if *once {
		notifScheduler.RunOnce(ctx)
		return
	}

	if err := notifScheduler.Start(); err != nil {
		mainLogger.WithError(err).Error("Could not start scheduler")
		svc.Close()
		os.Exit(1)
	}
	mainLogger.Info("Application setup complete. Scheduler is running")

	<-ctx.Done() // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	notifScheduler.Stop()
	mainLogger.Info("Application shut down gracefully.")
}
