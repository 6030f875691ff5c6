package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESMailSender delivers mail through Amazon SES
type SESMailSender struct {
	client *sesv2.Client
}

// NewSESMailSender creates an SES-backed mail sender. Credentials resolve
// through the default AWS chain (env vars, shared config, instance role).
func NewSESMailSender(ctx context.Context, region string) (MailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESMailSender{client: sesv2.NewFromConfig(cfg)}, nil
}

// Send delivers one plain-text message via the SES v2 API
func (s *SESMailSender) Send(ctx context.Context, from, to, subject, body string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("ses send to %s failed: %w", to, err)
	}
	return nil
}
