package pubsub

import (
	"context"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Metadata keys reserved by the bus.
const (
	metaKeyUserID      = "user_id"
	metaKeyTopic       = "topic"
	metaKeyPublishedAt = "published_at"
)

// WatermillBridge is the Publisher and Subscriber of the application, backed
// by a watermill GoChannel. Every subscriber of a topic gets every event.
type WatermillBridge struct {
	channel *gochannel.GoChannel
	now     func() time.Time
}

// NewWatermillBridge creates the bus. Publishing never waits for slow
// subscribers, and the publisher's context travels with each event.
func NewWatermillBridge() *WatermillBridge {
	return &WatermillBridge{
		channel: gochannel.NewGoChannel(
			gochannel.Config{
				OutputChannelBuffer: 64,
				PreserveContext:     true,
			},
			watermill.NewStdLogger(false, false),
		),
		now: time.Now,
	}
}

// encode turns an event into a watermill message. Reserved keys win over
// caller metadata.
func encode(msg Message, publishedAt time.Time) *message.Message {
	wmMsg := message.NewMessage(watermill.NewUUID(), msg.Payload)
	for k, v := range msg.Metadata {
		wmMsg.Metadata.Set(k, v)
	}
	wmMsg.Metadata.Set(metaKeyTopic, msg.Topic)
	wmMsg.Metadata.Set(metaKeyUserID, msg.UserID)
	wmMsg.Metadata.Set(metaKeyPublishedAt, publishedAt.UTC().Format(time.RFC3339Nano))
	return wmMsg
}

// decode is the inverse of encode. The topic moves back into its field; the
// user id and publish time stay visible in Metadata as well.
func decode(wmMsg *message.Message) Message {
	metadata := make(map[string]string, len(wmMsg.Metadata))
	for k, v := range wmMsg.Metadata {
		if k != metaKeyTopic {
			metadata[k] = v
		}
	}
	return Message{
		Topic:    wmMsg.Metadata.Get(metaKeyTopic),
		UserID:   wmMsg.Metadata.Get(metaKeyUserID),
		Payload:  wmMsg.Payload,
		Metadata: metadata,
	}
}

// Publish implements Publisher.
func (wb *WatermillBridge) Publish(ctx context.Context, msg Message) error {
	wmMsg := encode(msg, wb.now())
	wmMsg.SetContext(ctx)
	return wb.channel.Publish(msg.Topic, wmMsg)
}

// Subscribe implements Subscriber. Handler errors are logged and the event
// is acked anyway: a nacked event would be redelivered forever.
func (wb *WatermillBridge) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := wb.channel.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		for wmMsg := range messages {
			deliverCtx := context.WithoutCancel(wmMsg.Context())
			if err := handler(deliverCtx, decode(wmMsg)); err != nil {
				slog.Error("event handler failed", "topic", topic, "msg_id", wmMsg.UUID, "error", err)
			}
			wmMsg.Ack()
		}
		slog.Debug("event subscription ended", "topic", topic)
	}()
	return nil
}

// Close stops every subscription.
func (wb *WatermillBridge) Close() error {
	return wb.channel.Close()
}
