package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// Connect opens a client and pings the deployment before returning.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

// Store bundles the collection-backed implementations of the store interfaces
// over a single database: users, chats and messages.
type Store struct {
	Users         *UserStore
	Conversations *ConversationStore
	Messages      *MessageStore
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		Users:         NewUserStore(db.Collection("users")),
		Conversations: NewConversationStore(db.Collection("chats")),
		Messages:      NewMessageStore(db.Collection("messages")),
	}
}

func ensureIndexes(coll *mongo.Collection, idx ...mongo.IndexModel) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	_, _ = coll.Indexes().CreateMany(ctx, idx)
}

func sortAsc(field string) bson.D {
	return bson.D{{Key: field, Value: 1}}
}

func sortDesc(field string) bson.D {
	return bson.D{{Key: field, Value: -1}}
}
