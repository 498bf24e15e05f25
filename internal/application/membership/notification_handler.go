package membership

import (
	"context"
	"fmt"

	"github.com/renthub/backend/internal/domain/membership"
	"github.com/renthub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NotificationSink receives user-facing announcements. Delivery is
// fire-and-forget: a sink failure never fails the operation that emitted
// the event.
type NotificationSink interface {
	Notify(ctx context.Context, eventType, message string, payload any) error
}

// NotificationHandler subscribes to membership domain events and forwards
// them to the configured sinks as human-readable notifications.
type NotificationHandler struct {
	sinks  []NotificationSink
	logger *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(logger *zap.Logger, sinks ...NotificationSink) *NotificationHandler {
	return &NotificationHandler{
		sinks:  sinks,
		logger: logger,
	}
}

// EventTypes returns the event types this handler consumes
func (h *NotificationHandler) EventTypes() []string {
	return []string{
		membership.EventTypeTransactionSubmitted,
		membership.EventTypeTransactionApproved,
		membership.EventTypeTransactionRejected,
		membership.EventTypeMembershipGranted,
	}
}

// Handle formats the event and fans it out to every sink
func (h *NotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	message := h.formatMessage(event)

	for _, sink := range h.sinks {
		if err := sink.Notify(ctx, event.EventType(), message, event); err != nil {
			h.logger.Error("notification sink failed",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (h *NotificationHandler) formatMessage(event shared.DomainEvent) string {
	switch e := event.(type) {
	case *membership.TransactionSubmittedEvent:
		return fmt.Sprintf("Payment claim received for %s (%s %s); awaiting review", e.PackageName, e.Amount, e.Currency)
	case *membership.TransactionApprovedEvent:
		return fmt.Sprintf("Payment for %s approved", e.PackageName)
	case *membership.TransactionRejectedEvent:
		if e.Reason != "" {
			return fmt.Sprintf("Payment for %s rejected: %s", e.PackageName, e.Reason)
		}
		return fmt.Sprintf("Payment for %s rejected", e.PackageName)
	case *membership.MembershipGrantedEvent:
		return fmt.Sprintf("%s membership active until %s (%d listings per period)",
			e.Tier.DisplayName(), e.EndDate.Format("2006-01-02"), e.PostLimit)
	default:
		return event.EventType()
	}
}

// Ensure NotificationHandler implements EventHandler
var _ shared.EventHandler = (*NotificationHandler)(nil)
