package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"tender-backend/internal/bootstrap"
	"tender-backend/internal/shared/config"
	"tender-backend/internal/shared/metrics"
	"tender-backend/internal/shared/telemetry"
	"tender-backend/internal/workerproc"
)

const (
	defaultVisibilitySeconds  = 300
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
	defaultMaxReceives        = 5
)

func main() {
	defer telemetry.Sync()
	cfg := config.Load()

	queueURL := strings.TrimSpace(cfg.EventsQueueURL)
	if queueURL == "" {
		telemetry.Error("worker.config_invalid", map[string]any{"error": "EVENTS_SQS_QUEUE_URL is required"})
		os.Exit(1)
	}
	// The worker consumes the queue; it must not publish back onto it.
	cfg.EventsQueueURL = ""

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	visibilitySeconds := envInt("WORKER_VISIBILITY_TIMEOUT_SECONDS", defaultVisibilitySeconds)
	concurrency := envInt("WORKER_CONCURRENCY", defaultWorkerConcurrency)
	shutdownTimeout := time.Duration(envInt("WORKER_SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second
	maxReceives := envInt("WORKER_MAX_RECEIVES", defaultMaxReceives)

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.AWSRegion != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.AWSRegion))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		telemetry.Error("worker.aws_config_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	var sqsClient sqsAPI = sqs.NewFromConfig(awsCfg)

	app, err := bootstrap.BuildServices(ctx, cfg)
	if err != nil {
		telemetry.Error("worker.bootstrap_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer app.Close()

	processor := &workerproc.SummaryBackfill{
		Documents: app.DocumentsService,
		Chat:      app.ChatService,
		LLM:       app.LLM,
	}

	sem := make(chan struct{}, max(1, concurrency))
	var wg sync.WaitGroup

	telemetry.Info("worker.started", map[string]any{
		"queue":        queueURL,
		"concurrency":  concurrency,
		"visibility":   visibilitySeconds,
		"max_receives": maxReceives,
	})

pollLoop:
	for {
		select {
		case <-ctx.Done():
			break pollLoop
		default:
		}

		resp, err := sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   int32(visibilitySeconds),
			AttributeNames:      []sqstypes.QueueAttributeName{sqstypes.QueueAttributeName("ApproximateReceiveCount")},
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break pollLoop
			}
			telemetry.Error("worker.receive_failed", map[string]any{"error": err})
			continue
		}

		for _, msg := range resp.Messages {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			metrics.IncEventsReceived()
			wg.Add(1)
			go func(m sqstypes.Message) {
				defer wg.Done()
				defer func() { <-sem }()
				handleMessage(ctx, sqsClient, queueURL, processor, maxReceives, m)
			}(msg)
		}
	}

	telemetry.Info("worker.shutdown", map[string]any{"timeout": shutdownTimeout.String()})
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(shutdownTimeout):
		telemetry.Warn("worker.shutdown_timeout", map[string]any{"reason": "in-flight messages abandoned"})
	}
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// handleMessage deletes processed and unreadable messages. Processing failures
// stay on the queue and are redelivered after the visibility timeout until the
// message has been received maxReceives times; then it is dropped. A
// non-positive maxReceives retries forever.
func handleMessage(ctx context.Context, client sqsAPI, queueURL string, p workerproc.Processor, maxReceives int, msg sqstypes.Message) {
	body := aws.ToString(msg.Body)
	ev, meta, err := workerproc.ParseMessage(body)
	if err != nil {
		fields := baseFields(msg, "", "")
		fields["body_len"] = meta.BodyLen
		if meta.BodySHA != "" {
			fields["body_sha256"] = meta.BodySHA
		}
		fields["error"] = err.Error()
		var missing workerproc.ErrMissingDocumentID
		if errors.As(err, &missing) {
			fields["request_id"] = missing.RequestID
		}
		telemetry.Error("worker.event.invalid", fields)
		if deleteMessage(ctx, client, queueURL, msg, "", "") {
			metrics.IncEventsDiscarded()
		}
		return
	}

	telemetry.Info("worker.event.received", baseFields(msg, ev.DocumentID, ev.RequestID))

	if err := workerproc.Handle(ctx, p, ev); err != nil {
		fields := baseFields(msg, ev.DocumentID, ev.RequestID)
		fields["error"] = err.Error()
		telemetry.Error("worker.event.failed", fields)
		metrics.IncEventsFailed()
		if maxReceives > 0 && receiveCount(msg) >= maxReceives {
			fields["max_receives"] = maxReceives
			telemetry.Error("worker.event.dead_lettered", fields)
			if deleteMessage(ctx, client, queueURL, msg, ev.DocumentID, ev.RequestID) {
				metrics.IncEventsDiscarded()
			}
		}
		return
	}

	if deleteMessage(ctx, client, queueURL, msg, ev.DocumentID, ev.RequestID) {
		telemetry.Info("worker.event.completed", baseFields(msg, ev.DocumentID, ev.RequestID))
		metrics.IncEventsCompleted()
	}
}

func deleteMessage(ctx context.Context, client sqsAPI, queueURL string, msg sqstypes.Message, documentID, requestID string) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" {
		fields := baseFields(msg, documentID, requestID)
		fields["error"] = "missing receipt handle"
		telemetry.Error("worker.event.delete_failed", fields)
		return false
	}
	if _, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		fields := baseFields(msg, documentID, requestID)
		fields["error"] = err.Error()
		telemetry.Error("worker.event.delete_failed", fields)
		return false
	}
	return true
}

func baseFields(msg sqstypes.Message, documentID, requestID string) map[string]any {
	fields := map[string]any{
		"document_id":    documentID,
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}
	if strings.TrimSpace(requestID) != "" {
		fields["request_id"] = requestID
	}
	return fields
}

func receiveCount(msg sqstypes.Message) int {
	if msg.Attributes == nil {
		return 0
	}
	raw := msg.Attributes["ApproximateReceiveCount"]
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
