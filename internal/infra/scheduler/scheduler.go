package scheduler

import (
	"context"
	"fmt"
	"time"

	"subscription_expiry_notifier/internal/app" // For NotificationService interface

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type ExpiryScheduler struct {
	cronEngine   *cron.Cron
	notifService app.NotificationService
	logger       *logrus.Entry
	cronSpec     string
	jobTimeout   time.Duration // 0 disables the per-run deadline
}

func NewExpiryScheduler(
	notifService app.NotificationService,
	logger *logrus.Entry,
	cronSpec string, // e.g., "0 9 * * *" (9 AM daily)
	jobTimeout time.Duration,
) *ExpiryScheduler {
	return &ExpiryScheduler{
		cronEngine: cron.New(
			cron.WithLocation(time.Local), // Use server's local time for cron
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		notifService: notifService,
		logger:       logger,
		cronSpec:     cronSpec,
		jobTimeout:   jobTimeout,
	}
}

// Start registers the expiry notification job and starts the cron engine.
func (s *ExpiryScheduler) Start() error {
	s.logger.Info("Starting expiry notification scheduler")

	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered for expiry notifications")
		s.RunOnce(context.Background())
	})
	if err != nil {
		return fmt.Errorf("could not add expiry notification cron job %q: %w", s.cronSpec, err)
	}

	s.cronEngine.Start()
	s.logger.WithField("cron_spec", s.cronSpec).Info("Expiry notification scheduler started")
	return nil
}

// RunOnce executes a single notification pass, applying the configured
// deadline if any. Errors are logged, never returned.
func (s *ExpiryScheduler) RunOnce(ctx context.Context) {
	if s.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.jobTimeout)
		defer cancel()
	}

	if err := s.notifService.Run(ctx); err != nil {
		s.logger.WithError(err).Error("Error during expiry notification process")
		return
	}
	s.logger.Info("Expiry notification process completed")
}

func (s *ExpiryScheduler) Stop() {
	s.logger.Info("Stopping expiry notification scheduler")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Expiry notification scheduler gracefully stopped")
}
