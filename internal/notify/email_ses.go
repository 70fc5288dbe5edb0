package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/arogyalabs/diagnostics-platform/pkg/logging"
)

// SESEmailSender sends emails via AWS SES.
type SESEmailSender struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	features  *Features
	logger    *logging.Logger
}

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	FromEmail string
	FromName  string
}

// NewSESEmailSender creates an AWS SES email sender.
func NewSESEmailSender(client *sesv2.Client, cfg SESConfig, features *Features, logger *logging.Logger) *SESEmailSender {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SESEmailSender{
		client:    client,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		features:  features,
		logger:    logger,
	}
}

// Send sends one email to all recipients via SES.
func (s *SESEmailSender) Send(ctx context.Context, msg EmailMessage) Outcome {
	if s.features != nil && s.features.DryRun {
		id := dryRunID("dry-run")
		s.logger.Info("[DRY RUN] email would be sent",
			"to", joinRecipients(msg.To),
			"subject", msg.Subject,
			"message_id", id,
		)
		return OK(id)
	}

	toAddresses := make([]string, 0, len(msg.To))
	for _, r := range msg.To {
		if r.Name != "" {
			toAddresses = append(toAddresses, fmt.Sprintf("%s <%s>", r.Name, r.Email))
		} else {
			toAddresses = append(toAddresses, r.Email)
		}
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)),
		Destination: &types.Destination{
			ToAddresses: toAddresses,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(msg.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{},
			},
		},
	}
	if msg.Text != "" {
		input.Content.Simple.Body.Text = &types.Content{
			Data:    aws.String(msg.Text),
			Charset: aws.String("UTF-8"),
		}
	}
	if msg.HTML != "" {
		input.Content.Simple.Body.Html = &types.Content{
			Data:    aws.String(msg.HTML),
			Charset: aws.String("UTF-8"),
		}
	}

	output, err := s.client.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("SES send failed", "error", err, "to", joinRecipients(msg.To))
		return Errf("SES send failed: %v", err)
	}

	id := aws.ToString(output.MessageId)
	s.logger.Info("email sent via SES", "to", joinRecipients(msg.To), "subject", msg.Subject, "message_id", id)
	return OK(id)
}

// Verify probes SES with an authenticated account lookup.
func (s *SESEmailSender) Verify(ctx context.Context) error {
	if _, err := s.client.GetAccount(ctx, &sesv2.GetAccountInput{}); err != nil {
		return fmt.Errorf("notify: SES verify: %w", err)
	}
	return nil
}

// Ensure interface compliance
var _ EmailSender = (*SESEmailSender)(nil)
