package aws

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// mockSQS records every SendMessage call; err, when set, is returned instead.
type mockSQS struct {
	mu   sync.Mutex
	sent []*sqs.SendMessageInput
	err  error
}

func (m *mockSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.sent = append(m.sent, params)
	return &sqs.SendMessageOutput{}, nil
}

// mockCloudWatch records every PutMetricData call.
type mockCloudWatch struct {
	mu   sync.Mutex
	puts []*cloudwatch.PutMetricDataInput
	err  error
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.puts = append(m.puts, params)
	return &cloudwatch.PutMetricDataOutput{}, nil
}
