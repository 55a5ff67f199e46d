package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sohbetapp/sohbet-server/internal/models"
)

type MessageStore struct {
	coll *mongo.Collection
}

func NewMessageStore(coll *mongo.Collection) *MessageStore {
	ensureIndexes(coll, mongo.IndexModel{
		Keys:    bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: 1}},
		Options: options.Index().SetName("conversation_created_idx"),
	})
	return &MessageStore{coll: coll}
}

func (s *MessageStore) InsertMessage(ctx context.Context, m *models.Message) error {
	_, err := s.coll.InsertOne(ctx, m)
	return err
}

// ListMessages returns the full message sequence for a conversation in
// chronological order. Ties on created_at keep insertion order.
func (s *MessageStore) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	filter := bson.M{"conversation_id": conversationID}
	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(sortAsc("created_at")))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Message
	for cur.Next(ctx) {
		var m models.Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, cur.Err()
}
