// Package bootstrap assembles the expiry notification service from AppConfig.
package bootstrap

import (
	"context"
	"fmt"

	"subscription_expiry_notifier/internal/app"
	"subscription_expiry_notifier/internal/domain/mail"
	"subscription_expiry_notifier/internal/domain/subscription"
	"subscription_expiry_notifier/internal/infra/appsync"
	"subscription_expiry_notifier/internal/infra/config"
	idb "subscription_expiry_notifier/internal/infra/database"
	"subscription_expiry_notifier/internal/infra/email"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/sirupsen/logrus"
)

// Service is a ready-to-run notification service plus the cleanup for the
// resources it holds.
type Service struct {
	*app.ExpiryNotificationService
	closers []func() error
}

// Close releases resources opened by New.
func (s *Service) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// New wires the directory backend and mail transport selected by cfg.
func New(ctx context.Context, cfg *config.AppConfig, logger *logrus.Entry) (*Service, error) {
	policy, err := app.ParseExpiryPolicy(cfg.ExpiryPolicy)
	if err != nil {
		return nil, err
	}

	var awsCfg *aws.Config
	loadAWS := func() (aws.Config, error) {
		if awsCfg != nil {
			return *awsCfg, nil
		}
		c, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return aws.Config{}, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		awsCfg = &c
		return c, nil
	}

	svc := &Service{}

	directory, err := newDirectory(ctx, cfg, loadAWS, svc)
	if err != nil {
		svc.Close()
		return nil, err
	}
	logger.WithField("backend", cfg.DirectoryBackend).Info("Directory initialized")

	sender, err := newSender(cfg, loadAWS)
	if err != nil {
		svc.Close()
		return nil, err
	}
	logger.WithField("transport", cfg.MailTransport).Info("Mail sender initialized")

	svc.ExpiryNotificationService = app.NewExpiryNotificationService(directory, sender, app.ServiceOptions{
		Policy:    policy,
		BatchSize: cfg.BatchSize,
		Content: app.NotificationContent{
			Subject: cfg.NotifySubject,
			Body:    cfg.NotifyBody,
		},
	}, logger)
	return svc, nil
}

func newDirectory(ctx context.Context, cfg *config.AppConfig, loadAWS func() (aws.Config, error), svc *Service) (subscription.Directory, error) {
	switch cfg.DirectoryBackend {
	case config.BackendPostgres:
		db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to directory database: %w", err)
		}
		svc.closers = append(svc.closers, db.Close)
		return idb.NewPostgresUserDirectory(db, cfg.DirectoryPageSize), nil

	case config.BackendAppSync, "":
		awsCfg, err := loadAWS()
		if err != nil {
			return nil, err
		}
		signer := appsync.NewRequestSigner(awsCfg.Credentials, cfg.AWSRegion, cfg.SigningService)
		client, err := appsync.NewClient(cfg.GraphQLEndpoint, nil, signer)
		if err != nil {
			return nil, err
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unknown directory backend %q", cfg.DirectoryBackend)
	}
}

func newSender(cfg *config.AppConfig, loadAWS func() (aws.Config, error)) (mail.Sender, error) {
	switch cfg.MailTransport {
	case config.TransportSMTP:
		return email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailSource), nil

	case config.TransportSES, "":
		awsCfg, err := loadAWS()
		if err != nil {
			return nil, err
		}
		return email.NewSESSender(ses.NewFromConfig(awsCfg), cfg.MailSource), nil

	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.MailTransport)
	}
}
