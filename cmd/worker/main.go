package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/imrishuroy/go-checkout-summary/internal/aws"
	"github.com/imrishuroy/go-checkout-summary/internal/checkout"
	"github.com/imrishuroy/go-checkout-summary/internal/config"
	"github.com/imrishuroy/go-checkout-summary/internal/logger"
)

// logPublisher stands in for the results queue when running locally.
type logPublisher struct {
	log *slog.Logger
}

func (l logPublisher) SendMessage(ctx context.Context, messageBody string, attributes map[string]string) error {
	l.log.Info("result", "component", "worker", "body", messageBody)
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	calc := checkout.NewCalculator(cfg.Policy())

	// If RUN_LOCAL=true, simulate a single SQS event and print the result.
	if cfg.RunLocal {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"correlation_id":"local-1","request":{"user_id":"u1","items":[{"price":100,"qty":2}],"coupon":"SAVE10"}}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{MessageId: "local-message-1", Body: testBody},
			},
		}
		p := NewProcessor(calc, logPublisher{log: log}, nil, log)
		resp, err := p.Handle(context.Background(), event)
		if err != nil || len(resp.BatchItemFailures) > 0 {
			log.Error("local handler error", "error", err, "failures", len(resp.BatchItemFailures))
			os.Exit(1)
		}
		return
	}

	if cfg.Worker.ResultsQueueURL == "" {
		log.Error("RESULTS_QUEUE_URL is required")
		os.Exit(1)
	}

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Error("failed to init aws clients", "error", err)
		os.Exit(1)
	}

	var recorder checkoutRecorder
	if cfg.Metrics.CloudWatch {
		recorder = aws.NewMetricsEmitter(clients.CloudWatch, cfg.Metrics.Namespace, "worker")
	}

	p := NewProcessor(calc, aws.NewPublisher(clients.SQS, cfg.Worker.ResultsQueueURL), recorder, log)
	lambda.Start(p.Handle)
}
