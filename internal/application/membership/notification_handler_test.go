package membership

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/renthub/backend/internal/domain/membership"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturingSink struct {
	mu       sync.Mutex
	messages []string
	fail     bool
}

func (s *capturingSink) Notify(_ context.Context, _ string, message string, _ any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("sink unavailable")
	}
	s.messages = append(s.messages, message)
	return nil
}

func TestNotificationHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("formats membership grant for the user", func(t *testing.T) {
		m, err := membership.NewMembership(uuid.New(), membership.TierPremium, "Premium Plan", 10, 30,
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		events := m.GetDomainEvents()
		require.Len(t, events, 1)

		sink := &capturingSink{}
		handler := NewNotificationHandler(zap.NewNop(), sink)
		require.NoError(t, handler.Handle(ctx, events[0]))

		require.Len(t, sink.messages, 1)
		assert.Equal(t, "Premium membership active until 2024-03-31 (10 listings per period)", sink.messages[0])
	})

	t.Run("one failing sink does not starve the others", func(t *testing.T) {
		tx, err := membership.NewPaymentTransaction(uuid.New(), "Basic Plan", decimal.NewFromInt(299000), membership.CurrencyVND, "bank_transfer", "")
		require.NoError(t, err)
		events := tx.GetDomainEvents()
		require.Len(t, events, 1)

		broken := &capturingSink{fail: true}
		working := &capturingSink{}
		handler := NewNotificationHandler(zap.NewNop(), broken, working)

		require.NoError(t, handler.Handle(ctx, events[0]))
		require.Len(t, working.messages, 1)
		assert.Contains(t, working.messages[0], "Basic Plan")
	})

	t.Run("subscribes to the whole transaction lifecycle", func(t *testing.T) {
		handler := NewNotificationHandler(zap.NewNop())
		assert.ElementsMatch(t, []string{
			membership.EventTypeTransactionSubmitted,
			membership.EventTypeTransactionApproved,
			membership.EventTypeTransactionRejected,
			membership.EventTypeMembershipGranted,
		}, handler.EventTypes())
	})
}
