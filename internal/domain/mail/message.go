package mail

import "context"

// Status codes carried by SendResult.
const (
	StatusSent   = 200
	StatusFailed = 400
)

// Message is a single-recipient plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// SendResult is the outcome of one send attempt. Failures are carried as
// data rather than returned as errors.
type SendResult struct {
	Recipient  string
	StatusCode int
	Reason     string // Set only when StatusCode is StatusFailed
}

func (r SendResult) OK() bool {
	return r.StatusCode == StatusSent
}

// Sender defines an interface for delivering a Message through an outbound
// email service.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
