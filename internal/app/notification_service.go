// internal/app/notification_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"subscription_expiry_notifier/internal/domain/mail"
	"subscription_expiry_notifier/internal/domain/subscription"
)

// NotificationService defines the operations of the expiry notification job.
type NotificationService interface {
	// Run executes one full pass: fetch users, build the notify list and
	// send the notification to every recipient.
	Run(ctx context.Context) error
}

// NotificationContent is the fixed subject and body sent to every recipient.
type NotificationContent struct {
	Subject string
	Body    string
}

// ServiceOptions configures an ExpiryNotificationService.
type ServiceOptions struct {
	Policy    ExpiryPolicy
	BatchSize int
	Content   NotificationContent
	Now       func() time.Time // Defaults to time.Now
}

// ExpiryNotificationService implements the NotificationService interface.
// It holds no state between runs.
type ExpiryNotificationService struct {
	directory subscription.Directory
	sender    mail.Sender
	opts      ServiceOptions
	logger    *logrus.Entry
}

func NewExpiryNotificationService(
	d subscription.Directory,
	s mail.Sender,
	opts ServiceOptions,
	logger *logrus.Entry,
) *ExpiryNotificationService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ExpiryNotificationService{
		directory: d,
		sender:    s,
		opts:      opts,
		logger:    logger,
	}
}

// Run fetches the directory, computes today's notify list and dispatches the
// notification. Only a directory failure is returned; send failures are
// logged by the mailer and never surface here.
func (s *ExpiryNotificationService) Run(ctx context.Context) error {
	runLogger := s.logger.WithField("run_id", uuid.NewString())
	startedAt := time.Now()
	runLogger.Info("Expiry notification run started")

	reader := NewDirectoryReader(s.directory, runLogger.WithField("component", "directory_reader"))
	users, err := reader.FetchAllUsers(ctx)
	if err != nil {
		runLogger.WithError(err).Error("Expiry notification run aborted, no emails sent")
		return fmt.Errorf("failed to fetch users from directory: %w", err)
	}

	filter := NewExpiryFilter(s.opts.Policy, s.opts.Now, runLogger.WithField("component", "expiry_filter"))
	notifySet := filter.BuildNotifyList(users)
	if notifySet.Len() == 0 {
		runLogger.Info("No subscriptions expire within the next day")
		return nil
	}

	mailer := NewMailer(s.sender, runLogger.WithField("component", "mailer"))
	dispatcher := NewBatchDispatcher(mailer, s.opts.BatchSize, runLogger.WithField("component", "batch_dispatcher"))
	dispatcher.Dispatch(ctx, notifySet.Emails(), s.opts.Content.Subject, s.opts.Content.Body)

	runLogger.WithFields(logrus.Fields{
		"recipients": notifySet.Len(),
		"duration":   time.Since(startedAt).String(),
	}).Info("Expiry notification run finished")
	return nil
}
