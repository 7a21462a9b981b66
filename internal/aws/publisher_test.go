package aws

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/smithy-go"
)

func TestPublisher_SendMessage(t *testing.T) {
	mock := &mockSQS{}
	p := NewPublisher(mock, "https://sqs.local/results")

	err := p.SendMessage(context.Background(), `{"status":"OK"}`, map[string]string{
		"correlation_id": "c1",
		"order_id":       "u1-1-X",
		"empty":          "",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mock.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(mock.sent))
	}
	in := mock.sent[0]
	if *in.QueueUrl != "https://sqs.local/results" {
		t.Fatalf("queue url mismatch: %s", *in.QueueUrl)
	}
	if *in.MessageBody != `{"status":"OK"}` {
		t.Fatalf("body mismatch: %s", *in.MessageBody)
	}
	if len(in.MessageAttributes) != 2 {
		t.Fatalf("expected 2 attributes (empty skipped), got %d", len(in.MessageAttributes))
	}
	if v := in.MessageAttributes["order_id"]; v.StringValue == nil || *v.StringValue != "u1-1-X" {
		t.Fatalf("order_id attribute mismatch: %+v", v)
	}
}

func TestPublisher_SendMessage_APIError(t *testing.T) {
	mock := &mockSQS{err: &smithy.GenericAPIError{Code: "AWS.SimpleQueueService.NonExistentQueue", Message: "no queue"}}
	p := NewPublisher(mock, "missing")

	err := p.SendMessage(context.Background(), "{}", nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "NonExistentQueue") {
		t.Fatalf("expected error code in message, got %v", err)
	}
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected wrapped APIError, got %T", err)
	}
}
