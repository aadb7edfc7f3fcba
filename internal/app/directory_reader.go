package app

import (
	"context"
	"errors"
	"fmt"

	"subscription_expiry_notifier/internal/domain/subscription"

	"github.com/sirupsen/logrus"
)

// DirectoryReader walks every page of the user directory.
type DirectoryReader struct {
	directory subscription.Directory
	logger    *logrus.Entry
}

func NewDirectoryReader(d subscription.Directory, logger *logrus.Entry) *DirectoryReader {
	return &DirectoryReader{
		directory: d,
		logger:    logger,
	}
}

// FetchAllUsers follows pagination tokens until the directory reports no
// further pages. Pages are requested one at a time.
//
// A page without a recognizable payload ends the listing early and the users
// gathered so far are returned as complete. Any other page error aborts the
// whole fetch.
func (r *DirectoryReader) FetchAllUsers(ctx context.Context) ([]subscription.UserRecord, error) {
	var (
		users     []subscription.UserRecord
		nextToken string
		pages     int
	)

	for {
		page, err := r.directory.ListUsers(ctx, nextToken)
		if err != nil {
			if errors.Is(err, subscription.ErrNoPayload) {
				r.logger.WithError(err).WithFields(logrus.Fields{
					"page":          pages + 1,
					"users_fetched": len(users),
				}).Warn("Directory page without payload, treating listing as complete")
				break
			}
			r.logger.WithError(err).WithField("page", pages+1).Error("Failed to fetch directory page")
			return nil, fmt.Errorf("failed to fetch directory page %d: %w", pages+1, err)
		}
		pages++

		users = append(users, page.Items...)
		r.logger.WithFields(logrus.Fields{
			"page":       pages,
			"page_items": len(page.Items),
		}).Debug("Directory page fetched")

		if page.NextToken == "" {
			break
		}
		nextToken = page.NextToken
	}

	r.logger.WithFields(logrus.Fields{
		"pages": pages,
		"users": len(users),
	}).Info("Directory listing complete")
	return users, nil
}
