package app

import (
	"context"
	"fmt"

	"subscription_expiry_notifier/internal/domain/mail"

	"github.com/sirupsen/logrus"
)

// Mailer sends one notification email and reports the outcome as a
// mail.SendResult. It never returns an error or lets a panic escape.
type Mailer struct {
	sender mail.Sender
	logger *logrus.Entry
}

func NewMailer(sender mail.Sender, logger *logrus.Entry) *Mailer {
	return &Mailer{
		sender: sender,
		logger: logger,
	}
}

func (m *Mailer) SendMail(ctx context.Context, email, subject, body string) (result mail.SendResult) {
	log := m.logger.WithField("recipient", email)

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Email sender panicked")
			result = mail.SendResult{
				Recipient:  email,
				StatusCode: mail.StatusFailed,
				Reason:     fmt.Sprintf("sender panic: %v", r),
			}
		}
	}()

	err := m.sender.Send(ctx, mail.Message{
		To:      email,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		log.WithError(err).Error("Failed to send email")
		return mail.SendResult{
			Recipient:  email,
			StatusCode: mail.StatusFailed,
			Reason:     err.Error(),
		}
	}

	log.Info("Email sent")
	return mail.SendResult{Recipient: email, StatusCode: mail.StatusSent}
}
