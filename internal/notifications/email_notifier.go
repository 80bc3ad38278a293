package notifications

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"aviauth/backend/pkg/config"
	avilog "aviauth/backend/pkg/log"
)

// SESEmailNotifier implements EmailNotifier on top of AWS SES v2.
type SESEmailNotifier struct {
	client *sesv2.Client
	sender string
}

// NewEmailNotifier builds the SES notifier from configuration. It
// returns nil (and no error) when SES is not configured, in which case
// email delivery is disabled.
func NewEmailNotifier(ctx context.Context, cfg *config.Config) (EmailNotifier, error) {
	log := avilog.L.Named("NewEmailNotifier")

	if cfg.AWSRegion == "" || cfg.AWSSESEmailSender == "" {
		log.Warn("AWS SES is not configured (missing AWS_REGION or AWS_SES_EMAIL_SENDER); email delivery disabled")
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, err
	}

	log.Info("AWS SES email notifier initialized",
		zap.String("sender", cfg.AWSSESEmailSender),
		zap.String("region", cfg.AWSRegion))
	return &SESEmailNotifier{
		client: sesv2.NewFromConfig(awsCfg),
		sender: cfg.AWSSESEmailSender,
	}, nil
}

// SendEmail sends one message through SES.
func (s *SESEmailNotifier) SendEmail(ctx context.Context, to, subject, bodyHTML, bodyText string) error {
	if s.client == nil {
		return errors.New("SES client not initialized")
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: &s.sender,
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(bodyHTML),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(bodyText),
						Charset: aws.String("UTF-8"),
					},
				},
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		avilog.L.Error("Failed to send email via SES", zap.Error(err), zap.String("recipient", to))
		return err
	}
	return nil
}
