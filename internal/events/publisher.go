package events

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/sohbetapp/sohbet-server/internal/models"
)

// Publisher implements the chat layer's event sink. Failures are logged and
// dropped; the store write already succeeded.
type Publisher struct {
	writer *kafka.Writer
	nc     *nats.Conn
	log    *zap.SugaredLogger
}

func NewPublisher(brokers []string, topic string, nc *nats.Conn, log *zap.SugaredLogger) *Publisher {
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &Publisher{writer: w, nc: nc, log: log}
}

func (p *Publisher) MessageSent(ctx context.Context, m *models.Message, participants []string) {
	ev := MessageSentEvent{
		MessageID:      m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Participants:   participants,
		CreatedAt:      m.CreatedAt,
	}
	b, _ := json.Marshal(ev)
	msg := kafka.Message{Key: []byte(m.ConversationID), Value: b}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Warnw("kafka publish", "err", err)
	}
}

func (p *Publisher) ConversationCreated(_ context.Context, c *models.Conversation) {
	ev := ConversationCreatedEvent{ConversationID: c.ID, Participants: c.Participants}
	b, _ := json.Marshal(ev)
	if err := p.nc.Publish(SubjectConversationCreated, b); err != nil {
		p.log.Warnw("nats publish", "err", err)
	}
}

func (p *Publisher) Close() error { return p.writer.Close() }
