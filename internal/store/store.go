package store

import (
	"context"
	"errors"

	"github.com/sohbetapp/sohbet-server/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// UserStore persists registered user profiles and credential hashes.
type UserStore interface {
	InsertUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// ConversationStore persists two-party conversation records. InsertConversation
// returns ErrDuplicate when a conversation with the same pair key already
// exists, which callers resolve with FindByPairKey.
type ConversationStore interface {
	InsertConversation(ctx context.Context, c *models.Conversation) error
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	FindByPairKey(ctx context.Context, pairKey string) (*models.Conversation, error)
	ListForParticipant(ctx context.Context, userID string) ([]models.Conversation, error)
	SetLastMessage(ctx context.Context, conversationID string, m *models.Message) error
}

// MessageStore persists the immutable message log per conversation.
type MessageStore interface {
	InsertMessage(ctx context.Context, m *models.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]models.Message, error)
}
