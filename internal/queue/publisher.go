package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"alumniconnect/internal/events"
)

// defaultMaxLen caps the stream; trimming is approximate.
const defaultMaxLen = 10000

// RedisPublisher appends change events to a Redis stream. It satisfies
// events.Publisher so it can sit behind events.Fanout.
type RedisPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
	log    *zap.Logger
}

// NewPublisher creates a publisher for stream.
func NewPublisher(client *redis.Client, stream string, log *zap.Logger) *RedisPublisher {
	return &RedisPublisher{
		client: client,
		stream: stream,
		maxLen: defaultMaxLen,
		log:    log.Named("publisher"),
	}
}

// Publish adds the event with XADD and an auto-generated ID.
func (p *RedisPublisher) Publish(ctx context.Context, event events.ChangeEvent) error {
	_, err := p.Append(ctx, event)
	return err
}

// Append is Publish returning the message ID Redis assigned.
func (p *RedisPublisher) Append(ctx context.Context, event events.ChangeEvent) (string, error) {
	values, err := toValues(event)
	if err != nil {
		return "", fmt.Errorf("serialize event: %w", err)
	}

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: values,
	}).Result()
	if err != nil {
		return "", fmt.Errorf("xadd to stream: %w", err)
	}

	p.log.Debug("change appended",
		zap.String("stream", p.stream),
		zap.String("type", string(event.Type)),
		zap.String("msg_id", id),
		zap.Int64("revision", event.Revision))
	return id, nil
}
