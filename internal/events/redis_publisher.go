package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisPublisher broadcasts events over Redis pub/sub, one channel per topic.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) publish(ctx context.Context, topic string, payload interface{}) error {
	env := Envelope{
		ID:       uuid.New().String(),
		Topic:    topic,
		TsUnixMs: time.Now().UnixMilli(),
		Payload:  payload,
	}
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, topic, b).Err()
}

func (p *RedisPublisher) PublishBetPlaced(ctx context.Context, e BetPlaced) error {
	return p.publish(ctx, TopicBetPlaced, e)
}

func (p *RedisPublisher) PublishParlayPlaced(ctx context.Context, e ParlayPlaced) error {
	return p.publish(ctx, TopicParlayPlaced, e)
}

func (p *RedisPublisher) PublishMarketResolved(ctx context.Context, e MarketResolved) error {
	return p.publish(ctx, TopicMarketResolved, e)
}
