package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sohbetapp/sohbet-server/internal/models"
	"github.com/sohbetapp/sohbet-server/internal/store/memory"
)

func newTestDirectory(t *testing.T) (*Directory, *memory.Store) {
	t.Helper()
	st := memory.NewStore()
	return NewDirectory(st, NewHub(), nil, zap.NewNop().Sugar()), st
}

func recvConversations(t *testing.T, ch <-chan []models.Conversation) []models.Conversation {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok, "subscription channel closed")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestFindOrCreateIdempotent(t *testing.T) {
	d, _ := newTestDirectory(t)
	ctx := context.Background()

	first, err := d.FindOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)
	second, err := d.FindOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFindOrCreateOrderInsensitive(t *testing.T) {
	d, _ := newTestDirectory(t)
	ctx := context.Background()

	// B initiates first contact, then A initiates with arguments reversed
	id, err := d.FindOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)
	reversed, err := d.FindOrCreate(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, id, reversed)
}

func TestFindOrCreateDistinctPairs(t *testing.T) {
	d, _ := newTestDirectory(t)
	ctx := context.Background()

	ab, err := d.FindOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)
	ac, err := d.FindOrCreate(ctx, "alice", "carol")
	require.NoError(t, err)
	assert.NotEqual(t, ab, ac)
}

func TestFindOrCreateSameUser(t *testing.T) {
	d, _ := newTestDirectory(t)
	_, err := d.FindOrCreate(context.Background(), "alice", "alice")
	assert.ErrorIs(t, err, ErrSameUser)
}

func TestFindOrCreateStartsWithEmptyLastMessage(t *testing.T) {
	d, st := newTestDirectory(t)
	ctx := context.Background()

	id, err := d.FindOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)
	conv, err := st.GetConversation(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, conv.LastMessage)
	assert.ElementsMatch(t, []string{"alice", "bob"}, conv.Participants)
}

func TestListForParticipant(t *testing.T) {
	d, _ := newTestDirectory(t)
	ctx := context.Background()

	_, err := d.FindOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = d.FindOrCreate(ctx, "alice", "carol")
	require.NoError(t, err)

	convs, err := d.ListForParticipant(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, convs, 2)

	convs, err = d.ListForParticipant(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, convs, 1)

	convs, err = d.ListForParticipant(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, convs)
}

func TestSubscribeDeliversSnapshotsOnChange(t *testing.T) {
	d, _ := newTestDirectory(t)
	ctx := context.Background()

	sub := d.Subscribe("alice")
	defer sub.Unsubscribe()

	snap := recvConversations(t, sub.C)
	assert.Empty(t, snap, "initial snapshot before any conversation")

	id, err := d.FindOrCreate(ctx, "bob", "alice")
	require.NoError(t, err)

	snap = recvConversations(t, sub.C)
	require.Len(t, snap, 1)
	assert.Equal(t, id, snap[0].ID)
}

func TestUnsubscribeIsIdempotentAndClosesChannel(t *testing.T) {
	d, _ := newTestDirectory(t)

	sub := d.Subscribe("alice")
	recvConversations(t, sub.C)

	sub.Unsubscribe()
	sub.Unsubscribe()

	select {
	case _, ok := <-sub.C:
		assert.False(t, ok, "channel must be closed after unsubscribe")
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after unsubscribe")
	}
}
