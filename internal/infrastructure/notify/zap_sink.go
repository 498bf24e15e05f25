package notify

import (
	"context"

	"go.uber.org/zap"
)

// ZapSink writes notifications to the application log. It is the default
// sink in development and a fallback when no delivery channel is configured.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink creates a new ZapSink
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger.Named("notify")}
}

// Notify logs the notification
func (s *ZapSink) Notify(_ context.Context, eventType, message string, _ any) error {
	s.logger.Info(message,
		zap.String("event_type", eventType),
	)
	return nil
}
