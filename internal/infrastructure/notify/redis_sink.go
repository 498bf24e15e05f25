package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSink publishes notifications to a Redis channel for downstream
// consumers (websocket gateway, mobile push worker). Delivery is
// best-effort; the emitter logs and drops failures.
type RedisSink struct {
	client  *redis.Client
	channel string
}

// NewRedisSink creates a new RedisSink publishing to the given channel
func NewRedisSink(client *redis.Client, channel string) *RedisSink {
	return &RedisSink{
		client:  client,
		channel: channel,
	}
}

// envelope is the wire shape published to the channel
type envelope struct {
	EventType string    `json:"event_type"`
	Message   string    `json:"message"`
	Payload   any       `json:"payload,omitempty"`
	SentAt    time.Time `json:"sent_at"`
}

// Notify publishes the notification to the configured channel
func (s *RedisSink) Notify(ctx context.Context, eventType, message string, payload any) error {
	body, err := json.Marshal(envelope{
		EventType: eventType,
		Message:   message,
		Payload:   payload,
		SentAt:    time.Now(),
	})
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, s.channel, body).Err()
}
