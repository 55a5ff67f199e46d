// Package events moves domain events between instances. New messages ride a
// Kafka topic, conversation creation rides NATS; both feed the subscription
// hub on every instance so snapshot subscriptions converge no matter which
// instance took the write.
package events

import "time"

const (
	SubjectConversationCreated = "conversation.created"
)

type MessageSentEvent struct {
	MessageID      string    `json:"message_id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Participants   []string  `json:"participants"`
	CreatedAt      time.Time `json:"created_at"`
}

type ConversationCreatedEvent struct {
	ConversationID string   `json:"conversation_id"`
	Participants   []string `json:"participants"`
}

// Notifier is the hub-facing half: wake subscriptions after remote writes.
type Notifier interface {
	MessagesChanged(conversationID string)
	ConversationsChanged(userIDs ...string)
}
