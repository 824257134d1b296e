package events

import (
	"time"

	"go.uber.org/zap"

	"github.com/veggerby/ignition/internal/result"
)

// ZapSink logs every lifecycle transition with structured fields, the way
// kubernaut and linkflow-go wire zap through their service layers.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink wraps logger. A nil logger falls back to zap.NewNop().
func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger}
}

var _ Sink = (*ZapSink)(nil)

func (z *ZapSink) SignalStarted(name string, startedAt time.Time) {
	z.logger.Debug("signal started", zap.String("signal", name), zap.Time("started_at", startedAt))
}

func (z *ZapSink) SignalCompleted(name string, status result.Status, duration time.Duration) {
	fields := []zap.Field{
		zap.String("signal", name),
		zap.String("status", status.String()),
		zap.Duration("duration", duration),
	}
	if status.Success() {
		z.logger.Info("signal completed", fields...)
		return
	}
	z.logger.Warn("signal completed", fields...)
}

func (z *ZapSink) GlobalTimeoutFired(at time.Time) {
	z.logger.Warn("global timeout fired", zap.Time("at", at))
}

func (z *ZapSink) CoordinatorCompleted(state string, totalDuration time.Duration) {
	z.logger.Info("coordinator completed", zap.String("state", state), zap.Duration("total_duration", totalDuration))
}
