package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sohbetapp/sohbet-server/internal/metrics"
	"github.com/sohbetapp/sohbet-server/internal/models"
	"github.com/sohbetapp/sohbet-server/internal/store"
)

// Log appends messages and serves live per-conversation message
// subscriptions.
type Log struct {
	convs  store.ConversationStore
	msgs   store.MessageStore
	hub    *Hub
	events EventSink
	log    *zap.SugaredLogger
}

func NewLog(convs store.ConversationStore, msgs store.MessageStore, hub *Hub, events EventSink, log *zap.SugaredLogger) *Log {
	return &Log{convs: convs, msgs: msgs, hub: hub, events: events, log: log}
}

// Append writes a message and then refreshes the conversation's denormalized
// last-message pointer. The two writes are not transactional: a crash in
// between leaves the pointer stale until the next append. The sender name is
// denormalized at send time and never re-resolved.
func (l *Log) Append(ctx context.Context, conversationID, text, senderID, senderName string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyMessage
	}
	conv, err := l.convs.GetConversation(ctx, conversationID)
	if err != nil {
		return "", err
	}
	if !conv.HasParticipant(senderID) {
		return "", ErrNotParticipant
	}

	m := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Text:           text,
		SenderID:       senderID,
		SenderName:     senderName,
		CreatedAt:      time.Now().UTC(),
	}
	if err := l.msgs.InsertMessage(ctx, m); err != nil {
		return "", err
	}
	if err := l.convs.SetLastMessage(ctx, conversationID, m); err != nil {
		// accepted stale-pointer failure mode
		l.log.Warnw("last message pointer update", "conversation_id", conversationID, "err", err)
	}
	metrics.MessagesSent.Inc()

	if l.events != nil {
		l.events.MessageSent(ctx, m, conv.Participants)
	}
	l.hub.MessagesChanged(conversationID)
	l.hub.ConversationsChanged(conv.Participants...)
	return m.ID, nil
}

// History returns the full message sequence, created-at ascending.
func (l *Log) History(ctx context.Context, conversationID string) ([]models.Message, error) {
	return l.msgs.ListMessages(ctx, conversationID)
}

// Subscribe delivers the full ordered message sequence immediately and again
// after every new message. Each delivery is the authoritative current state,
// not a delta.
func (l *Log) Subscribe(conversationID string) *MessageSubscription {
	notify := make(chan struct{}, 1)
	done := make(chan struct{})
	out := make(chan []models.Message, 1)

	l.hub.addConvWatch(conversationID, notify)
	stop := func() {
		l.hub.removeConvWatch(conversationID, notify)
		close(done)
	}

	go func() {
		defer close(out)
		for {
			snap := l.snapshot(conversationID)
			select {
			case out <- snap:
			case <-done:
				return
			}
			select {
			case <-notify:
			case <-done:
				return
			}
		}
	}()

	return &MessageSubscription{C: out, stop: stop}
}

func (l *Log) snapshot(conversationID string) []models.Message {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	msgs, err := l.msgs.ListMessages(ctx, conversationID)
	if err != nil {
		l.log.Warnw("message snapshot", "conversation_id", conversationID, "err", err)
		return []models.Message{}
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return msgs
}
