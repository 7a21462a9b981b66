package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/imrishuroy/go-checkout-summary/internal/checkout"
	"github.com/imrishuroy/go-checkout-summary/internal/validation"
)

type resultPublisher interface {
	SendMessage(ctx context.Context, messageBody string, attributes map[string]string) error
}

type checkoutRecorder interface {
	RecordCheckout(ctx context.Context, currency string, subtotal, discount, tax, total int64) error
	RecordRejection(ctx context.Context, reason string) error
}

// Processor prices checkout requests arriving on SQS and publishes one
// result per message.
type Processor struct {
	calc     *checkout.Calculator
	results  resultPublisher
	recorder checkoutRecorder // optional
	log      *slog.Logger
}

// NewProcessor creates a new worker processor. recorder may be nil.
func NewProcessor(calc *checkout.Calculator, results resultPublisher, recorder checkoutRecorder, log *slog.Logger) *Processor {
	return &Processor{
		calc:     calc,
		results:  results,
		recorder: recorder,
		log:      log.With("component", "worker"),
	}
}

// Handle processes an SQS batch. Rejected requests are answered, not
// retried; only messages whose result could not be published are reported
// as batch item failures so SQS redelivers them.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			p.log.Error("worker error", "message_id", rec.MessageId, "error", err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: rec.MessageId})
		}
	}
	return resp, nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	result := ResultMessage{MessageID: rec.MessageId}

	var msg WorkerMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		p.log.Warn("undecodable message body", "message_id", rec.MessageId, "error", err)
		result.Status = StatusRejected
		result.Reason = string(validation.ReasonMalformed)
		return p.publishAndRecord(ctx, result)
	}
	result.CorrelationID = msg.CorrelationID

	summary, err := p.price(msg.Request)
	if err != nil {
		reason, ok := validation.ReasonOf(err)
		if !ok {
			return fmt.Errorf("price message %s: %w", rec.MessageId, err)
		}
		result.Status = StatusRejected
		result.Reason = string(reason)
		p.log.Info("checkout rejected", "message_id", rec.MessageId, "corr", msg.CorrelationID, "reason", reason)
		return p.publishAndRecord(ctx, result)
	}

	result.Status = StatusOK
	result.Summary = summary
	p.log.Info("checkout computed", "message_id", rec.MessageId, "corr", msg.CorrelationID, "order_id", summary.OrderID, "total", summary.Total)
	return p.publishAndRecord(ctx, result)
}

// publishAndRecord publishes result and only then records its metric, so a
// redelivered message is counted once.
func (p *Processor) publishAndRecord(ctx context.Context, result ResultMessage) error {
	if err := p.publish(ctx, result); err != nil {
		return err
	}
	p.record(ctx, result.Summary, result.Reason)
	return nil
}

func (p *Processor) price(raw json.RawMessage) (*checkout.Response, error) {
	req, err := validation.ParseRequest(raw)
	if err != nil {
		return nil, err
	}
	return p.calc.Process(req)
}

func (p *Processor) record(ctx context.Context, summary *checkout.Response, reason string) {
	if p.recorder == nil {
		return
	}
	var err error
	if summary != nil {
		err = p.recorder.RecordCheckout(ctx, summary.Currency, summary.Subtotal, summary.Discount, summary.Tax, summary.Total)
	} else {
		err = p.recorder.RecordRejection(ctx, reason)
	}
	if err != nil {
		p.log.Warn("failed to record metric", "error", err)
	}
}

func (p *Processor) publish(ctx context.Context, result ResultMessage) error {
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	attrs := map[string]string{
		"status":         result.Status,
		"correlation_id": result.CorrelationID,
	}
	if result.Summary != nil {
		attrs["order_id"] = result.Summary.OrderID
	}
	if err := p.results.SendMessage(ctx, string(body), attrs); err != nil {
		return fmt.Errorf("publish result: %w", err)
	}
	return nil
}
