package sinks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/asca-arts/gatekeeper/pkg/domain/security"
	"github.com/go-redis/redis/v8"
)

const (
	RedisSinkName       = "redis"
	DefaultRedisChannel = "gatekeeper:security-events"
)

// RedisMessage is the envelope published on the channel so subscribers can
// switch on the event type before decoding the payload.
type RedisMessage struct {
	Type  security.EventType `json:"type"`
	Event json.RawMessage    `json:"event"`
}

type RedisSink struct {
	client  redis.Cmdable
	channel string
}

func NewRedisSink(client redis.Cmdable, channel string) (*RedisSink, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisSink{client: client, channel: channel}, nil
}

func (s *RedisSink) Name() string {
	return RedisSinkName
}

func (s *RedisSink) Handle(ctx context.Context, event security.Event) error {
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	data, err := json.Marshal(RedisMessage{Type: event.Type, Event: b})
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}
	if err := s.client.Publish(ctx, s.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", s.channel, err)
	}
	return nil
}
