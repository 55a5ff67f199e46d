package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sohbetapp/sohbet-server/internal/models"
	"github.com/sohbetapp/sohbet-server/internal/store"
)

func TestInsertConversationRejectsDuplicatePairKey(t *testing.T) {
	st := NewStore()
	ctx := context.Background()

	first := &models.Conversation{ID: "c1", Participants: []string{"a", "b"}, PairKey: models.PairKey("a", "b")}
	require.NoError(t, st.InsertConversation(ctx, first))

	// a concurrent creator lost the race for the same pair
	second := &models.Conversation{ID: "c2", Participants: []string{"b", "a"}, PairKey: models.PairKey("b", "a")}
	err := st.InsertConversation(ctx, second)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	found, err := st.FindByPairKey(ctx, models.PairKey("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, "c1", found.ID)
}

func TestInsertUserRejectsDuplicateEmail(t *testing.T) {
	st := NewStore()
	ctx := context.Background()

	require.NoError(t, st.InsertUser(ctx, &models.User{ID: "u1", Email: "a@b.co"}))
	err := st.InsertUser(ctx, &models.User{ID: "u2", Email: "a@b.co"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}
