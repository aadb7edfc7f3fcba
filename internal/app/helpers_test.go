package app

import (
	"context"
	"fmt"
	"sync"

	"subscription_expiry_notifier/internal/domain/mail"
	"subscription_expiry_notifier/internal/domain/subscription"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() (*logrus.Entry, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logrus.NewEntry(logger), hook
}

// pagedDirectory serves a fixed list of pages and records the tokens it was asked for.
type pagedDirectory struct {
	pages  []subscription.UserPage
	errAt  int // 1-based call index that fails, 0 disables
	err    error
	tokens []string
}

func (d *pagedDirectory) ListUsers(_ context.Context, nextToken string) (*subscription.UserPage, error) {
	d.tokens = append(d.tokens, nextToken)
	call := len(d.tokens)
	if d.errAt == call {
		return nil, d.err
	}
	if call > len(d.pages) {
		return nil, fmt.Errorf("unexpected call %d", call)
	}
	page := d.pages[call-1]
	return &page, nil
}

func (d *pagedDirectory) calls() int {
	return len(d.tokens)
}

// newPages builds pages of the given sizes with unique emails, each user
// carrying one subscription that expires at expiresAt.
func newPages(expiresAt int64, sizes ...int) []subscription.UserPage {
	pages := make([]subscription.UserPage, 0, len(sizes))
	n := 0
	for i, size := range sizes {
		page := subscription.UserPage{}
		for j := 0; j < size; j++ {
			page.Items = append(page.Items, subscription.UserRecord{
				Email:         fmt.Sprintf("user%03d@x.com", n),
				Subscriptions: []subscription.SubscriptionRecord{{ExpiresAt: expiresAt}},
			})
			n++
		}
		if i < len(sizes)-1 {
			page.NextToken = fmt.Sprintf("token-%d", i+1)
		}
		pages = append(pages, page)
	}
	return pages
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, msg mail.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// recordingSender is a mail.Sender safe for concurrent use.
type recordingSender struct {
	mu       sync.Mutex
	sent     []mail.Message
	failures map[string]error
}

func (s *recordingSender) Send(_ context.Context, msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.failures[msg.To]
}

func (s *recordingSender) recipients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sent))
	for _, m := range s.sent {
		out = append(out, m.To)
	}
	return out
}

func entriesWithMessage(hook *test.Hook, msg string) []logrus.Entry {
	var out []logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Message == msg {
			out = append(out, *e)
		}
	}
	return out
}
