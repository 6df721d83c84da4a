package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/carerota/backend/pkg/pubsub"
	"github.com/redis/go-redis/v9"
)

type publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) pubsub.Publisher {
	return &publisher{client: client}
}

func (p *publisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if err := p.client.Publish(ctx, topic, pack.Msg).Err(); err != nil {
		return fmt.Errorf("client.Publish: %w", err)
	}

	return nil
}

func (p *publisher) Stop(ctx context.Context) error {
	return p.client.Close()
}

type subscriber struct {
	client  *redis.Client
	topics  []string
	handler pubsub.SubscribeHandler

	sub *redis.PubSub
}

func NewSubscriber(
	client *redis.Client,
	topics []string,
	handler pubsub.SubscribeHandler,
) pubsub.Subscriber {
	return &subscriber{client: client, topics: topics, handler: handler}
}

func (s *subscriber) Subscribe(ctx context.Context) {
	s.sub = s.client.Subscribe(ctx, s.topics...)

	go func() {
		for msg := range s.sub.Channel() {
			s.handler(ctx, &pubsub.Pack{
				Key: []byte(msg.Channel),
				Msg: []byte(msg.Payload),
			}, time.Now())
		}
	}()
}

func (s *subscriber) Stop(ctx context.Context) error {
	if s.sub == nil {
		return nil
	}

	return s.sub.Close()
}
