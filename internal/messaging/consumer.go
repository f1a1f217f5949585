package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Handler processes a single decoded event. Returning an error nacks the
// message so the transport redelivers it.
type Handler[T any] func(ctx context.Context, event *T) error

// ConsumerGroup runs typed event handlers on top of a watermill router.
// Ack/nack bookkeeping is the router's job; handlers stay synchronous and
// easy to test.
type ConsumerGroup struct {
	router     *message.Router
	subscriber message.Subscriber
	logger     *zap.Logger
}

// NewConsumerGroup creates a consumer group over the given subscriber.
func NewConsumerGroup(subscriber message.Subscriber, logger *zap.Logger) (*ConsumerGroup, error) {
	router, err := message.NewRouter(message.RouterConfig{}, NewZapLoggerAdapter(logger))
	if err != nil {
		return nil, fmt.Errorf("create router: %w", err)
	}

	return &ConsumerGroup{
		router:     router,
		subscriber: subscriber,
		logger:     logger,
	}, nil
}

// AddHandler registers a typed handler for a topic. Must be called before
// Start. The handler name shows up in logs and must be unique per group.
func AddHandler[T any](g *ConsumerGroup, name, topic string, handler Handler[T]) {
	g.router.AddNoPublisherHandler(name, topic, g.subscriber, func(msg *message.Message) error {
		var event T
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			return fmt.Errorf("unmarshal %s event: %w", topic, err)
		}

		return handler(msg.Context(), &event)
	})
}

// Start runs the router in the background and returns once it is accepting
// messages.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	go func() {
		if err := g.router.Run(ctx); err != nil {
			g.logger.Error("message router stopped", zap.Error(err))
		}
	}()

	select {
	case <-g.router.Running():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops the router and closes the subscriber.
func (g *ConsumerGroup) Shutdown() error {
	if err := g.router.Close(); err != nil {
		return err
	}

	return g.subscriber.Close()
}
