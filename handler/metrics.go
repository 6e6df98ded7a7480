package handler

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/philipp01105/rollinglog/handler"

	metricNameEnqueued = "rollinglog.records.enqueued"
	metricNameWritten  = "rollinglog.records.written"
	metricNameDropped  = "rollinglog.records.dropped"
	metricNameFlushes  = "rollinglog.flushes"

	attrReason = "reason"
	attrStatus = "status"
)

// Metrics mirrors Stats to OpenTelemetry counters. A nil *Metrics records
// nothing.
type Metrics struct {
	enqueued metric.Int64Counter
	written  metric.Int64Counter
	dropped  metric.Int64Counter
	flushes  metric.Int64Counter

	reasonAttrs [numDropReasons]metric.AddOption
	statusAttrs [numFlushStatuses]metric.AddOption
}

// NewMetrics creates the counters on mp. A nil mp uses the global
// MeterProvider, which is a no-op until the host installs an SDK.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)

	m := &Metrics{}
	var err error
	if m.enqueued, err = meter.Int64Counter(metricNameEnqueued,
		metric.WithDescription("Records accepted into the batching queue"), metric.WithUnit("{record}")); err != nil {
		return nil, err
	}
	if m.written, err = meter.Int64Counter(metricNameWritten,
		metric.WithDescription("Records appended to a log file"), metric.WithUnit("{record}")); err != nil {
		return nil, err
	}
	if m.dropped, err = meter.Int64Counter(metricNameDropped,
		metric.WithDescription("Records that were never written"), metric.WithUnit("{record}")); err != nil {
		return nil, err
	}
	if m.flushes, err = meter.Int64Counter(metricNameFlushes,
		metric.WithDescription("Flush cycles by outcome"), metric.WithUnit("{flush}")); err != nil {
		return nil, err
	}

	// Attribute sets are fixed, build them once
	for r := DropReason(0); r < numDropReasons; r++ {
		m.reasonAttrs[r] = metric.WithAttributes(attribute.String(attrReason, r.String()))
	}
	for s := FlushStatus(0); s < numFlushStatuses; s++ {
		m.statusAttrs[s] = metric.WithAttributes(attribute.String(attrStatus, s.String()))
	}
	return m, nil
}

// RecordEnqueued counts one accepted record
func (m *Metrics) RecordEnqueued(ctx context.Context) {
	if m == nil {
		return
	}
	m.enqueued.Add(ctx, 1)
}

// RecordWritten counts n written records
func (m *Metrics) RecordWritten(ctx context.Context, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.written.Add(ctx, int64(n))
}

// RecordDropped counts n records dropped for reason
func (m *Metrics) RecordDropped(ctx context.Context, reason DropReason, n int) {
	if m == nil || n <= 0 || reason >= numDropReasons {
		return
	}
	m.dropped.Add(ctx, int64(n), m.reasonAttrs[reason])
}

// RecordFlush counts one flush cycle
func (m *Metrics) RecordFlush(ctx context.Context, status FlushStatus) {
	if m == nil || status >= numFlushStatuses {
		return
	}
	m.flushes.Add(ctx, 1, m.statusAttrs[status])
}
