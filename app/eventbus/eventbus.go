// Package eventbus wraps Watermill's NATS JetStream publisher/subscriber
// behind one interface shared by every module.
package eventbus

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
)

// EventBus publishes and subscribes to versioned topics.
type EventBus interface {
	Publish(topic string, messages ...*message.Message) error
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
	Close() error
}

// NatsEventBus implements EventBus over NATS JetStream.
type NatsEventBus struct {
	logger     watermill.LoggerAdapter
	publisher  *wmnats.Publisher
	subscriber *wmnats.Subscriber
}

var _ EventBus = (*NatsEventBus)(nil)

// NewNatsEventBus connects to NATS and builds the Watermill publisher and
// subscriber pair.
func NewNatsEventBus(natsURL string, logger watermill.LoggerAdapter) (*NatsEventBus, error) {
	options := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(1 * time.Second),
		nc.ErrorHandler(func(_ *nc.Conn, s *nc.Subscription, err error) {
			if s != nil {
				logger.Error("Error in subscription", err, watermill.LogFields{
					"subject": s.Subject,
					"queue":   s.Queue,
				})
			} else {
				logger.Error("Error in connection", err, nil)
			}
		}),
	}

	publisher, err := wmnats.NewPublisher(
		wmnats.PublisherConfig{
			URL:         natsURL,
			NatsOptions: options,
			Marshaler:   &wmnats.NATSMarshaler{},
			JetStream: wmnats.JetStreamConfig{
				AutoProvision: true,
			},
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Watermill NATS publisher: %w", err)
	}

	subscriber, err := wmnats.NewSubscriber(
		wmnats.SubscriberConfig{
			URL:         natsURL,
			NatsOptions: options,
			Unmarshaler: &wmnats.NATSMarshaler{},
			JetStream: wmnats.JetStreamConfig{
				AutoProvision: true,
			},
		},
		logger,
	)
	if err != nil {
		publisher.Close()
		return nil, fmt.Errorf("failed to create Watermill NATS subscriber: %w", err)
	}

	return &NatsEventBus{
		logger:     logger,
		publisher:  publisher,
		subscriber: subscriber,
	}, nil
}

// Publish publishes messages to the topic.
func (b *NatsEventBus) Publish(topic string, messages ...*message.Message) error {
	if err := b.publisher.Publish(topic, messages...); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe subscribes to the topic.
func (b *NatsEventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	messages, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	return messages, nil
}

// Close shuts the publisher and subscriber down.
func (b *NatsEventBus) Close() error {
	pubErr := b.publisher.Close()
	subErr := b.subscriber.Close()
	if pubErr != nil {
		return pubErr
	}
	return subErr
}
