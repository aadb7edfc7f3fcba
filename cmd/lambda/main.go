package main

import (
	"context"

	"subscription_expiry_notifier/internal/app"
	"subscription_expiry_notifier/internal/bootstrap"
	"subscription_expiry_notifier/internal/infra/config"
	"subscription_expiry_notifier/internal/infra/logger"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Could not load application configuration: %v", err)
	}
	logger.Init(cfg)

	svc, err := bootstrap.New(context.Background(), cfg, logger.Component("expiry_notifier"))
	if err != nil {
		logger.Log.WithError(err).Fatal("Could not initialize expiry notification service")
	}

	handler := app.NewScheduledHandler(svc, logger.Component("handler"))
	lambda.Start(handler.Handle)
}
