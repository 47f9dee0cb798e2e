package notify

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"hiring-screener/internal/common/config"
	"hiring-screener/internal/common/logger"
)

// SNSPublisher pushes recruiter alerts to the configured topic.
type SNSPublisher struct {
	client   *sns.Client
	topicARN string
	logger   logger.Logger
}

// NewSNSPublisher returns nil when no topic is configured; callers treat
// a nil publisher as alerts-disabled.
func NewSNSPublisher(ctx context.Context, cfg config.AWSConfig, log logger.Logger) (*SNSPublisher, error) {
	if cfg.SNSTopicARN == "" {
		return nil, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}
	return &SNSPublisher{
		client:   sns.NewFromConfig(awsCfg),
		topicARN: cfg.SNSTopicARN,
		logger:   log.With(map[string]interface{}{"provider": "sns"}),
	}, nil
}

func (p *SNSPublisher) Publish(ctx context.Context, message string) error {
	_, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(message),
	})
	return err
}
