package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Consumer feeds remote writes into the local subscription hub.
type Consumer struct {
	reader   *kafka.Reader
	notifier Notifier
	log      *zap.SugaredLogger
}

func NewConsumer(brokers []string, topic, groupID string, notifier Notifier, log *zap.SugaredLogger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	return &Consumer{reader: r, notifier: notifier, log: log}
}

// Run blocks reading message events until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Warnw("kafka read", "err", err)
			time.Sleep(time.Second)
			continue
		}
		var ev MessageSentEvent
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			c.log.Warnw("invalid message event", "err", err)
			continue
		}
		c.notifier.MessagesChanged(ev.ConversationID)
		c.notifier.ConversationsChanged(ev.Participants...)
	}
}

func (c *Consumer) Close() error { return c.reader.Close() }

// SubscribeConversationCreated wires the NATS side: wake chat-list
// subscriptions of the new conversation's members.
func SubscribeConversationCreated(nc *nats.Conn, queue string, notifier Notifier, log *zap.SugaredLogger) (*nats.Subscription, error) {
	return nc.QueueSubscribe(SubjectConversationCreated, queue, func(m *nats.Msg) {
		var ev ConversationCreatedEvent
		if err := json.Unmarshal(m.Data, &ev); err != nil {
			log.Warnw("invalid conversation event", "err", err)
			return
		}
		notifier.ConversationsChanged(ev.Participants...)
	})
}
