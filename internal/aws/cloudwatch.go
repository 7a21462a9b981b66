package aws

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"golang.org/x/text/currency"
)

// Currency dimension values for codes outside ISO 4217.
const (
	CurrencyNone  = "NONE"
	CurrencyOther = "OTHER"
)

// MetricsEmitter pushes checkout metrics to CloudWatch.
type MetricsEmitter struct {
	CW        CloudWatchAPI
	Namespace string
	Source    string // "api" or "worker", sent as a dimension
	nowFunc   func() time.Time
}

// NewMetricsEmitter returns an emitter writing into namespace.
func NewMetricsEmitter(cw CloudWatchAPI, namespace, source string) *MetricsEmitter {
	return &MetricsEmitter{
		CW:        cw,
		Namespace: namespace,
		Source:    source,
		nowFunc:   time.Now,
	}
}

// RecordCheckout emits one accepted checkout with its computed amounts.
func (m *MetricsEmitter) RecordCheckout(ctx context.Context, code string, subtotal, discount, tax, total int64) error {
	now := m.nowFunc()
	dims := []cwtypes.Dimension{
		{Name: sdkaws.String("Source"), Value: sdkaws.String(m.Source)},
		{Name: sdkaws.String("Currency"), Value: sdkaws.String(currencyDimension(code))},
	}
	data := []cwtypes.MetricDatum{
		m.datum("CheckoutAccepted", 1, cwtypes.StandardUnitCount, now, dims),
		m.datum("CheckoutSubtotal", float64(subtotal), cwtypes.StandardUnitNone, now, dims),
		m.datum("CheckoutDiscount", float64(discount), cwtypes.StandardUnitNone, now, dims),
		m.datum("CheckoutTax", float64(tax), cwtypes.StandardUnitNone, now, dims),
		m.datum("CheckoutTotal", float64(total), cwtypes.StandardUnitNone, now, dims),
	}
	return m.put(ctx, data)
}

// RecordRejection emits one rejected checkout tagged with its reason.
func (m *MetricsEmitter) RecordRejection(ctx context.Context, reason string) error {
	dims := []cwtypes.Dimension{
		{Name: sdkaws.String("Source"), Value: sdkaws.String(m.Source)},
		{Name: sdkaws.String("Reason"), Value: sdkaws.String(reason)},
	}
	return m.put(ctx, []cwtypes.MetricDatum{
		m.datum("CheckoutRejected", 1, cwtypes.StandardUnitCount, m.nowFunc(), dims),
	})
}

// currencyDimension keeps the Currency dimension bounded: ISO 4217 codes map
// to themselves, empty to NONE and anything else to OTHER.
func currencyDimension(code string) string {
	if code == "" {
		return CurrencyNone
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return CurrencyOther
	}
	return unit.String()
}

func (m *MetricsEmitter) datum(name string, value float64, unit cwtypes.StandardUnit, ts time.Time, dims []cwtypes.Dimension) cwtypes.MetricDatum {
	return cwtypes.MetricDatum{
		MetricName: sdkaws.String(name),
		Value:      sdkaws.Float64(value),
		Unit:       unit,
		Timestamp:  sdkaws.Time(ts),
		Dimensions: dims,
	}
}

func (m *MetricsEmitter) put(ctx context.Context, data []cwtypes.MetricDatum) error {
	_, err := m.CW.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  sdkaws.String(m.Namespace),
		MetricData: data,
	})
	if err != nil {
		return fmt.Errorf("put metric data%s: %w", apiErrorCode(err), err)
	}
	return nil
}
