// Package bus provides the in-process pub/sub channel carrying session
// state changes to interested subscribers.
package bus

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// SessionStateTopic carries one message per session phase transition.
const SessionStateTopic = "session.state"

// outputBuffer bounds per-subscriber buffering so a slow listener cannot
// stall the session flow.
const outputBuffer = 64

// Bus wraps a watermill go-channel pub/sub.
type Bus struct {
	pubSub *gochannel.GoChannel
}

// New creates an in-process bus.
func New() *Bus {
	return &Bus{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: outputBuffer},
			watermill.NopLogger{},
		),
	}
}

// Publish emits one payload on the given topic.
func (b *Bus) Publish(topic string, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubSub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe invokes handler for every payload published on topic until ctx
// is cancelled or the bus closes. Delivery is in publish order.
func (b *Bus) Subscribe(ctx context.Context, topic string, handler func(payload []byte)) error {
	msgs, err := b.pubSub.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}

	go func() {
		for msg := range msgs {
			handler(msg.Payload)
			msg.Ack()
		}
	}()
	return nil
}

// Close shuts down the bus and drains all subscribers.
func (b *Bus) Close() error {
	if err := b.pubSub.Close(); err != nil {
		return fmt.Errorf("close bus: %w", err)
	}
	return nil
}
