package main

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"tender-backend/internal/events"
)

type fakeSQS struct {
	deleted []string
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	return &sqs.ReceiveMessageOutput{}, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

type fakeProcessor struct {
	err  error
	seen []events.Event
}

func (f *fakeProcessor) Process(ctx context.Context, ev events.Event) error {
	f.seen = append(f.seen, ev)
	return f.err
}

func eventMessage(t *testing.T, id, receipt string, ev events.Event) sqstypes.Message {
	t.Helper()
	body, err := events.Encode(ev)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return sqstypes.Message{
		MessageId:     aws.String(id),
		ReceiptHandle: aws.String(receipt),
		Body:          aws.String(string(body)),
		Attributes:    map[string]string{"ApproximateReceiveCount": "1"},
	}
}

func TestWorkerDeletesMessageOnSuccess(t *testing.T) {
	client := &fakeSQS{}
	p := &fakeProcessor{}
	msg := eventMessage(t, "m1", "r1", events.Event{Type: events.TypeDocumentIngested, DocumentID: "doc-1", RequestID: "req-1"})

	handleMessage(context.Background(), client, "queue", p, 5, msg)

	if len(client.deleted) != 1 || client.deleted[0] != "r1" {
		t.Fatalf("expected delete of r1, got %v", client.deleted)
	}
	if len(p.seen) != 1 || p.seen[0].DocumentID != "doc-1" {
		t.Fatalf("unexpected processed events: %#v", p.seen)
	}
}

func TestWorkerDoesNotDeleteOnFailure(t *testing.T) {
	client := &fakeSQS{}
	p := &fakeProcessor{err: errors.New("boom")}
	msg := eventMessage(t, "m2", "r2", events.Event{Type: events.TypeDocumentIngested, DocumentID: "doc-2"})

	handleMessage(context.Background(), client, "queue", p, 5, msg)

	if len(client.deleted) != 0 {
		t.Fatalf("expected no delete, got %d", len(client.deleted))
	}
}

func TestWorkerDropsMessageAfterMaxReceives(t *testing.T) {
	client := &fakeSQS{}
	p := &fakeProcessor{err: errors.New("gemini: quota exceeded")}
	msg := eventMessage(t, "m5", "r5", events.Event{Type: events.TypeDocumentIngested, DocumentID: "doc-5"})

	msg.Attributes["ApproximateReceiveCount"] = "4"
	handleMessage(context.Background(), client, "queue", p, 5, msg)
	if len(client.deleted) != 0 {
		t.Fatalf("expected redelivery below the cap, got deletes %v", client.deleted)
	}

	msg.Attributes["ApproximateReceiveCount"] = "5"
	handleMessage(context.Background(), client, "queue", p, 5, msg)
	if len(client.deleted) != 1 || client.deleted[0] != "r5" {
		t.Fatalf("expected delete at the cap, got %v", client.deleted)
	}
	if len(p.seen) != 2 {
		t.Fatalf("expected processing on each delivery, got %d", len(p.seen))
	}
}

func TestWorkerRetriesForeverWithoutCap(t *testing.T) {
	client := &fakeSQS{}
	p := &fakeProcessor{err: errors.New("boom")}
	msg := eventMessage(t, "m6", "r6", events.Event{Type: events.TypeDocumentIngested, DocumentID: "doc-6"})
	msg.Attributes["ApproximateReceiveCount"] = "100"

	handleMessage(context.Background(), client, "queue", p, 0, msg)

	if len(client.deleted) != 0 {
		t.Fatalf("expected no delete, got %v", client.deleted)
	}
}

func TestWorkerDeletesOnInvalidJSON(t *testing.T) {
	client := &fakeSQS{}
	p := &fakeProcessor{}
	msg := sqstypes.Message{
		MessageId:     aws.String("m3"),
		ReceiptHandle: aws.String("r3"),
		Body:          aws.String("{bad-json"),
	}

	handleMessage(context.Background(), client, "queue", p, 5, msg)

	if len(client.deleted) != 1 {
		t.Fatalf("expected delete, got %d", len(client.deleted))
	}
	if len(p.seen) != 0 {
		t.Fatal("processor must not run for invalid messages")
	}
}

func TestWorkerDeletesEventWithoutDocumentID(t *testing.T) {
	client := &fakeSQS{}
	p := &fakeProcessor{}
	msg := eventMessage(t, "m4", "r4", events.Event{Type: events.TypeDocumentIngested})

	handleMessage(context.Background(), client, "queue", p, 5, msg)

	if len(client.deleted) != 1 || len(p.seen) != 0 {
		t.Fatalf("expected discard, deleted=%v seen=%d", client.deleted, len(p.seen))
	}
}

func TestReceiveCount(t *testing.T) {
	if got := receiveCount(sqstypes.Message{Attributes: map[string]string{"ApproximateReceiveCount": "3"}}); got != 3 {
		t.Fatalf("receiveCount = %d", got)
	}
	if got := receiveCount(sqstypes.Message{}); got != 0 {
		t.Fatalf("receiveCount = %d", got)
	}
}
