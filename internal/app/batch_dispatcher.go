package app

import (
	"context"

	"subscription_expiry_notifier/internal/domain/mail"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// MaxBatchSize caps the number of sends in flight at once.
const MaxBatchSize = 100

type mailSender interface {
	SendMail(ctx context.Context, email, subject, body string) mail.SendResult
}

// BatchDispatcher fans sends out in fixed-size batches. Batches run one after
// another; the sends inside a batch run concurrently.
type BatchDispatcher struct {
	mailer    mailSender
	batchSize int
	logger    *logrus.Entry
}

func NewBatchDispatcher(m mailSender, batchSize int, logger *logrus.Entry) *BatchDispatcher {
	if batchSize <= 0 || batchSize > MaxBatchSize {
		batchSize = MaxBatchSize
	}
	return &BatchDispatcher{
		mailer:    m,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Dispatch sends subject/body to every email. A failed send affects neither
// the rest of its batch nor later batches.
func (d *BatchDispatcher) Dispatch(ctx context.Context, emails []string, subject, body string) {
	batches := splitBatches(emails, d.batchSize)

	for i, batch := range batches {
		results := make([]mail.SendResult, len(batch))

		var g errgroup.Group
		for j, email := range batch {
			j, email := j, email
			g.Go(func() error {
				results[j] = d.mailer.SendMail(ctx, email, subject, body)
				return nil
			})
		}
		_ = g.Wait() // Sends report failures through their results

		failed := 0
		for _, r := range results {
			if !r.OK() {
				failed++
			}
		}
		d.logger.WithFields(logrus.Fields{
			"batch":   i + 1,
			"batches": len(batches),
			"sent":    len(batch) - failed,
			"failed":  failed,
		}).Info("Email batch settled")
	}
}

// splitBatches cuts emails into contiguous chunks of at most size elements.
func splitBatches(emails []string, size int) [][]string {
	if len(emails) == 0 {
		return nil
	}
	batches := make([][]string, 0, (len(emails)+size-1)/size)
	for start := 0; start < len(emails); start += size {
		end := min(start+size, len(emails))
		batches = append(batches, emails[start:end])
	}
	return batches
}
