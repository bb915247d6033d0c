package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type sqsAPI interface {
	SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher sends events to AWS SQS.
type SQSPublisher struct {
	client   sqsAPI
	queueURL string
}

// NewSQSPublisher constructs an SQS-backed publisher.
func NewSQSPublisher(ctx context.Context, region, queueURL string) (*SQSPublisher, error) {
	queueURL = strings.TrimSpace(queueURL)
	if queueURL == "" {
		return nil, fmt.Errorf("EVENTS_SQS_QUEUE_URL is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if strings.TrimSpace(region) != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SQSPublisher{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
	}, nil
}

// Publish delivers an event to the configured SQS queue.
func (s *SQSPublisher) Publish(ctx context.Context, ev Event) error {
	payload, err := Encode(ev)
	if err != nil {
		return fmt.Errorf("encode sqs message: %w", err)
	}

	_, err = s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"type": {DataType: aws.String("String"), StringValue: aws.String(ev.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("sqs send message: %w", err)
	}
	return nil
}

var _ Publisher = (*SQSPublisher)(nil)
