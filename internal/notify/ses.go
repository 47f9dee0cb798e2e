package notify

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"hiring-screener/internal/common/config"
	"hiring-screener/internal/common/logger"
)

// SESSender delivers outcome emails through Amazon SES.
type SESSender struct {
	client *ses.Client
	from   string
	logger logger.Logger
}

func NewSESSender(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*SESSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, err
	}
	return &SESSender{
		client: ses.NewFromConfig(awsCfg),
		from:   cfg.From,
		logger: log.With(map[string]interface{}{"provider": "ses"}),
	}, nil
}

func (s *SESSender) Send(ctx context.Context, to, subject, body string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	}
	_, err := s.client.SendEmail(ctx, input)
	return err
}
