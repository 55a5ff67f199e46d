package models

import (
	"sort"
	"strings"
	"time"
)

type User struct {
	ID           string    `bson:"_id" json:"id"`
	DisplayName  string    `bson:"display_name,omitempty" json:"display_name,omitempty"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"`
	PasswordHash string    `bson:"password_hash,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
}

type Message struct {
	ID             string    `bson:"_id" json:"id"`
	ConversationID string    `bson:"conversation_id" json:"conversation_id"`
	Text           string    `bson:"text" json:"text"`
	SenderID       string    `bson:"sender_id" json:"sender_id"`
	SenderName     string    `bson:"sender_name" json:"sender_name"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

type Conversation struct {
	ID              string    `bson:"_id" json:"id"`
	Participants    []string  `bson:"participants" json:"participants"`
	PairKey         string    `bson:"pair_key" json:"-"`
	LastMessage     *Message  `bson:"last_message,omitempty" json:"last_message,omitempty"`
	LastMessageTime time.Time `bson:"last_message_time,omitempty" json:"last_message_time,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

// PairKey returns the canonical key for a two-party conversation. The key is
// independent of argument order so {a,b} and {b,a} map to the same record.
func PairKey(a, b string) string {
	p := []string{a, b}
	sort.Strings(p)
	return strings.Join(p, ":")
}

// HasParticipant reports whether userID belongs to the conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
