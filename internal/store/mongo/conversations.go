package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sohbetapp/sohbet-server/internal/models"
	"github.com/sohbetapp/sohbet-server/internal/store"
)

type ConversationStore struct {
	coll *mongo.Collection
}

func NewConversationStore(coll *mongo.Collection) *ConversationStore {
	ensureIndexes(coll,
		mongo.IndexModel{
			Keys:    sortAsc("participants"),
			Options: options.Index().SetName("participants_idx"),
		},
		// The unique pair key closes the race window between concurrent
		// find-or-create calls for the same participant pair.
		mongo.IndexModel{
			Keys:    sortAsc("pair_key"),
			Options: options.Index().SetUnique(true).SetName("pair_key_idx"),
		},
	)
	return &ConversationStore{coll: coll}
}

func (s *ConversationStore) InsertConversation(ctx context.Context, c *models.Conversation) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := s.coll.InsertOne(ctx, c)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicate
	}
	return err
}

func (s *ConversationStore) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	var c models.Conversation
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *ConversationStore) FindByPairKey(ctx context.Context, pairKey string) (*models.Conversation, error) {
	var c models.Conversation
	if err := s.coll.FindOne(ctx, bson.M{"pair_key": pairKey}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *ConversationStore) ListForParticipant(ctx context.Context, userID string) ([]models.Conversation, error) {
	filter := bson.M{"participants": userID}
	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(sortDesc("updated_at")))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Conversation
	for cur.Next(ctx) {
		var c models.Conversation
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, cur.Err()
}

func (s *ConversationStore) SetLastMessage(ctx context.Context, conversationID string, m *models.Message) error {
	update := bson.M{"$set": bson.M{
		"last_message":      m,
		"last_message_time": m.CreatedAt,
		"updated_at":        m.CreatedAt,
	}}
	res, err := s.coll.UpdateByID(ctx, conversationID, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
