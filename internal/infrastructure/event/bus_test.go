package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/renthub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	seen       []string
	fail       bool
	panics     bool
}

func (h *countingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fail {
		return errors.New("handler failed")
	}
	h.seen = append(h.seen, event.EventType())
	return nil
}

func (h *countingHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *countingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.seen)
}

func newEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "test_aggregate", uuid.New())
	return &e
}

func TestInMemoryEventBus(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to subscribed handlers only", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		approved := &countingHandler{eventTypes: []string{"transaction_approved"}}
		granted := &countingHandler{eventTypes: []string{"membership_granted"}}
		bus.Subscribe(approved)
		bus.Subscribe(granted)

		require.NoError(t, bus.Publish(ctx, newEvent("transaction_approved")))

		assert.Equal(t, 1, approved.count())
		assert.Equal(t, 0, granted.count())
	})

	t.Run("wildcard handler receives everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		all := &countingHandler{}
		bus.Subscribe(all)

		require.NoError(t, bus.Publish(ctx,
			newEvent("transaction_submitted"),
			newEvent("membership_granted"),
		))
		assert.Equal(t, 2, all.count())
	})

	t.Run("failing handler does not block the rest", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		broken := &countingHandler{eventTypes: []string{"transaction_approved"}, fail: true}
		healthy := &countingHandler{eventTypes: []string{"transaction_approved"}}
		bus.Subscribe(broken)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, newEvent("transaction_approved")))
		assert.Equal(t, 1, healthy.count())
	})

	t.Run("panicking handler is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		bus.Subscribe(&countingHandler{eventTypes: []string{"transaction_approved"}, panics: true})

		require.NotPanics(t, func() {
			_ = bus.Publish(ctx, newEvent("transaction_approved"))
		})
	})

	t.Run("unsubscribed handler stops receiving", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &countingHandler{eventTypes: []string{"transaction_approved"}}
		bus.Subscribe(h)
		require.NoError(t, bus.Publish(ctx, newEvent("transaction_approved")))

		bus.Unsubscribe(h)
		require.NoError(t, bus.Publish(ctx, newEvent("transaction_approved")))
		assert.Equal(t, 1, h.count())
	})

	t.Run("start and stop are idempotent bookkeeping", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		require.NoError(t, bus.Start(ctx))
		require.NoError(t, bus.Stop(ctx))
	})
}
