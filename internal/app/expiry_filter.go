package app

import (
	"fmt"
	"time"

	"subscription_expiry_notifier/internal/domain/subscription"

	"github.com/sirupsen/logrus"
)

const secondsInDay = 24 * 60 * 60

// ExpiryPolicy decides how the 24-hour window treats expirations that are
// already in the past.
type ExpiryPolicy string

const (
	// PolicyLegacy matches any expiration less than a day ahead, past ones included.
	PolicyLegacy ExpiryPolicy = "legacy"
	// PolicyStrict matches only expirations within [now, now+24h).
	PolicyStrict ExpiryPolicy = "strict"
)

func ParseExpiryPolicy(s string) (ExpiryPolicy, error) {
	switch p := ExpiryPolicy(s); p {
	case PolicyLegacy, PolicyStrict:
		return p, nil
	case "":
		return PolicyLegacy, nil
	default:
		return "", fmt.Errorf("unknown expiry policy %q", s)
	}
}

// ExpiryFilter selects the users that must be notified in the current run.
type ExpiryFilter struct {
	policy ExpiryPolicy
	now    func() time.Time
	logger *logrus.Entry
}

func NewExpiryFilter(policy ExpiryPolicy, now func() time.Time, logger *logrus.Entry) *ExpiryFilter {
	if now == nil {
		now = time.Now
	}
	return &ExpiryFilter{
		policy: policy,
		now:    now,
		logger: logger,
	}
}

// IsTomorrow reports whether expiresAt falls inside the notification window
// relative to the filter's current time.
func (f *ExpiryFilter) IsTomorrow(expiresAt int64) bool {
	return f.inWindow(expiresAt, f.now().Unix())
}

func (f *ExpiryFilter) inWindow(expiresAt, now int64) bool {
	delta := expiresAt - now
	if f.policy == PolicyStrict && delta < 0 {
		return false
	}
	return delta < secondsInDay
}

// BuildNotifyList returns the emails of users with at least one subscription
// inside the window. The current time is read once per call.
func (f *ExpiryFilter) BuildNotifyList(users []subscription.UserRecord) *subscription.NotifySet {
	now := f.now().Unix()
	set := subscription.NewNotifySet()

	for _, u := range users {
		for _, s := range u.Subscriptions {
			if !f.inWindow(s.ExpiresAt, now) {
				continue
			}
			if u.Email == "" {
				f.logger.WithField("expires_at", s.ExpiresAt).Warn("Expiring subscription belongs to a user without email, skipping")
				break
			}
			set.Add(u.Email)
			break
		}
	}

	f.logger.WithFields(logrus.Fields{
		"users":      len(users),
		"recipients": set.Len(),
		"policy":     f.policy,
	}).Info("Notify list built")
	return set
}
