package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/imrishuroy/go-checkout-summary/internal/checkout"
	"github.com/imrishuroy/go-checkout-summary/internal/metrics"
	"github.com/imrishuroy/go-checkout-summary/internal/validation"
)

// RequestIDHeader carries the caller's correlation id; one is generated when absent.
const RequestIDHeader = "X-Request-Id"

// CheckoutRecorder receives checkout outcomes, e.g. the CloudWatch emitter.
type CheckoutRecorder interface {
	RecordCheckout(ctx context.Context, currency string, subtotal, discount, tax, total int64) error
	RecordRejection(ctx context.Context, reason string) error
}

// HandlerConfig groups dependencies for the checkout handler.
// Metrics and Recorder are optional.
type HandlerConfig struct {
	Calculator *checkout.Calculator
	Logger     *slog.Logger
	Metrics    *metrics.CheckoutMetrics
	Recorder   CheckoutRecorder
}

// RegisterCheckoutRoutes registers routes for the checkout API.
func RegisterCheckoutRoutes(r *gin.Engine, cfg HandlerConfig) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	r.POST("/checkout", func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		req, err := validation.Bind(c)
		if err != nil {
			// Bind already wrote the response
			reject(ctx, cfg, log, requestID, err, start)
			return
		}

		resp, err := cfg.Calculator.Process(req)
		if err != nil {
			validation.WriteError(c, err)
			reject(ctx, cfg, log, requestID, err, start)
			return
		}

		if cfg.Metrics != nil {
			cfg.Metrics.ObserveSuccess(elapsedMS(start), resp.Subtotal, resp.Discount, resp.Tax, resp.Total)
		}
		if cfg.Recorder != nil {
			if err := cfg.Recorder.RecordCheckout(ctx, resp.Currency, resp.Subtotal, resp.Discount, resp.Tax, resp.Total); err != nil {
				log.Warn("failed to record checkout metric", "request_id", requestID, "error", err)
			}
		}

		log.Info("checkout computed",
			"request_id", requestID,
			"order_id", resp.OrderID,
			"items_count", resp.ItemsCount,
			"total", resp.Total,
		)
		c.JSON(http.StatusOK, resp)
	})
}

func reject(ctx context.Context, cfg HandlerConfig, log *slog.Logger, requestID string, err error, start time.Time) {
	reason, ok := validation.ReasonOf(err)
	if !ok {
		reason = "internal"
	}
	if cfg.Metrics != nil {
		cfg.Metrics.ObserveRejection(elapsedMS(start), string(reason))
	}
	if cfg.Recorder != nil {
		if rerr := cfg.Recorder.RecordRejection(ctx, string(reason)); rerr != nil {
			log.Warn("failed to record rejection metric", "request_id", requestID, "error", rerr)
		}
	}
	log.Info("checkout rejected", "request_id", requestID, "reason", reason, "error", err)
}

func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
