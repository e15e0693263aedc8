package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const Topic = "storefront.events"

// Bus is the in-process event bus. Events published while nobody is
// subscribed are dropped.
type Bus struct {
	pubSub *gochannel.GoChannel
}

func NewBus(logger watermill.LoggerAdapter) *Bus {
	return &Bus{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			logger,
		),
	}
}

func (b *Bus) Publish(ctx context.Context, e Event) error {
	payload, err := Marshal(e)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return b.pubSub.Publish(Topic, msg)
}

func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, Topic)
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}
