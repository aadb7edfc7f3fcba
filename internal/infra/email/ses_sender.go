// internal/infra/email/ses_sender.go
package email

import (
	"context"
	"fmt"

	"subscription_expiry_notifier/internal/domain/mail"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the subset of the SES client used by SESSender.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender implements the mail.Sender interface using Amazon SES.
type SESSender struct {
	client SESAPI
	source string
}

func NewSESSender(client SESAPI, source string) *SESSender {
	return &SESSender{client: client, source: source}
}

// Send delivers msg as a single-recipient plain-text email.
func (s *SESSender) Send(ctx context.Context, msg mail.Message) error {
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(msg.Body)},
			},
			Subject: &types.Content{Data: aws.String(msg.Subject)},
		},
		Source: aws.String(s.source),
	})
	if err != nil {
		return fmt.Errorf("ses SendEmail to %s: %w", msg.To, err)
	}
	return nil
}
