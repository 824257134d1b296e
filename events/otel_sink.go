package events

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/veggerby/ignition/internal/result"
)

// OTelSink emits one child span per signal attempt under a root
// "ignition.wait_all" span, the same shape kubernaut and linkflow-go use for
// otel/trace instrumentation of request-scoped work.
type OTelSink struct {
	tracer   trace.Tracer
	rootCtx  context.Context
	rootSpan trace.Span

	mu    sync.Mutex
	spans map[string]trace.Span
}

// NewOTelSink starts the root span under ctx using tracer and returns the
// sink. CoordinatorCompleted ends the root span.
func NewOTelSink(ctx context.Context, tracer trace.Tracer) *OTelSink {
	rootCtx, rootSpan := tracer.Start(ctx, "ignition.wait_all")
	return &OTelSink{
		tracer:   tracer,
		rootCtx:  rootCtx,
		rootSpan: rootSpan,
		spans:    make(map[string]trace.Span),
	}
}

var _ Sink = (*OTelSink)(nil)

func (o *OTelSink) SignalStarted(name string, startedAt time.Time) {
	_, span := o.tracer.Start(o.rootCtx, "ignition.signal."+name, trace.WithTimestamp(startedAt))
	o.mu.Lock()
	o.spans[name] = span
	o.mu.Unlock()
}

func (o *OTelSink) SignalCompleted(name string, status result.Status, duration time.Duration) {
	o.mu.Lock()
	span, ok := o.spans[name]
	delete(o.spans, name)
	o.mu.Unlock()
	if !ok {
		return
	}
	span.SetAttributes(
		attribute.String("ignition.status", status.String()),
		attribute.Int64("ignition.duration_ms", duration.Milliseconds()),
	)
	if !status.Success() {
		span.SetStatus(codes.Error, status.String())
	}
	span.End()
}

func (o *OTelSink) GlobalTimeoutFired(at time.Time) {
	o.rootSpan.AddEvent("ignition.global_timeout", trace.WithTimestamp(at))
}

func (o *OTelSink) CoordinatorCompleted(state string, totalDuration time.Duration) {
	o.rootSpan.SetAttributes(
		attribute.String("ignition.final_state", state),
		attribute.Int64("ignition.total_duration_ms", totalDuration.Milliseconds()),
	)
	o.rootSpan.End()
}
