package main

import (
	"encoding/json"

	"github.com/imrishuroy/go-checkout-summary/internal/checkout"
)

// Result statuses
const (
	StatusOK       = "OK"
	StatusRejected = "REJECTED"
)

// WorkerMessage is the payload sent to the checkout requests queue.
type WorkerMessage struct {
	CorrelationID string          `json:"correlation_id,omitempty"`
	Request       json.RawMessage `json:"request"`
}

// ResultMessage is published to the results queue for every request message.
type ResultMessage struct {
	MessageID     string             `json:"message_id"`
	CorrelationID string             `json:"correlation_id,omitempty"`
	Status        string             `json:"status"` // OK | REJECTED
	Summary       *checkout.Response `json:"summary,omitempty"`
	Reason        string             `json:"reason,omitempty"`
}
