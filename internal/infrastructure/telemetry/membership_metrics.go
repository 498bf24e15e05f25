package telemetry

import (
	"context"

	"github.com/renthub/backend/internal/domain/membership"
	"github.com/renthub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MembershipMetrics counts membership lifecycle events. It subscribes to
// the domain event bus, so services emit metrics without depending on the
// telemetry layer.
type MembershipMetrics struct {
	logger *zap.Logger

	transactionsSubmitted *Counter
	transactionsDecided   *Counter
	membershipsGranted    *Counter
}

// NewMembershipMetrics creates the membership metrics event handler
func NewMembershipMetrics(logger *zap.Logger) (*MembershipMetrics, error) {
	meter := Meter()

	submitted, err := NewCounter(meter,
		"renthub_transactions_submitted_total",
		"Total number of payment claims submitted",
		"{transactions}",
	)
	if err != nil {
		return nil, err
	}

	decided, err := NewCounter(meter,
		"renthub_transactions_decided_total",
		"Total number of payment claims decided by operators",
		"{transactions}",
	)
	if err != nil {
		return nil, err
	}

	granted, err := NewCounter(meter,
		"renthub_memberships_granted_total",
		"Total number of membership windows granted",
		"{memberships}",
	)
	if err != nil {
		return nil, err
	}

	return &MembershipMetrics{
		logger:                logger,
		transactionsSubmitted: submitted,
		transactionsDecided:   decided,
		membershipsGranted:    granted,
	}, nil
}

// EventTypes returns the event types this handler consumes
func (m *MembershipMetrics) EventTypes() []string {
	return []string{
		membership.EventTypeTransactionSubmitted,
		membership.EventTypeTransactionApproved,
		membership.EventTypeTransactionRejected,
		membership.EventTypeMembershipGranted,
	}
}

// Handle increments the counter matching the event
func (m *MembershipMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *membership.TransactionSubmittedEvent:
		m.transactionsSubmitted.Inc(ctx,
			AttrPackageName.String(e.PackageName),
			AttrCurrency.String(e.Currency),
		)
	case *membership.TransactionApprovedEvent:
		m.transactionsDecided.Inc(ctx,
			AttrPackageName.String(e.PackageName),
			attrOutcome.String("approved"),
		)
	case *membership.TransactionRejectedEvent:
		m.transactionsDecided.Inc(ctx,
			AttrPackageName.String(e.PackageName),
			attrOutcome.String("rejected"),
		)
	case *membership.MembershipGrantedEvent:
		m.membershipsGranted.Inc(ctx,
			AttrPackageName.String(e.PackageName),
			AttrTier.String(e.Tier.String()),
		)
	default:
		m.logger.Debug("unhandled event type for metrics",
			zap.String("event_type", event.EventType()),
		)
	}
	return nil
}

// Ensure MembershipMetrics implements EventHandler
var _ shared.EventHandler = (*MembershipMetrics)(nil)
