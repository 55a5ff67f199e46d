package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sohbetapp/sohbet-server/internal/models"
	"github.com/sohbetapp/sohbet-server/internal/store"
	"github.com/sohbetapp/sohbet-server/internal/store/memory"
)

func newTestLog(t *testing.T) (*Log, *Directory, *memory.Store) {
	t.Helper()
	st := memory.NewStore()
	hub := NewHub()
	nop := zap.NewNop().Sugar()
	return NewLog(st, st, hub, nil, nop), NewDirectory(st, hub, nil, nop), st
}

func recvMessages(t *testing.T, ch <-chan []models.Message) []models.Message {
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

func TestAppendThenSubscribe(t *testing.T) {
	l, d, _ := newTestLog(t)
	ctx := context.Background()

	convID, err := d.FindOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)

	_, err = l.Append(ctx, convID, "selam", "alice", "Alice")
	require.NoError(t, err)
	_, err = l.Append(ctx, convID, "hi", "bob", "Bob")
	require.NoError(t, err)

	sub := l.Subscribe(convID)
	defer sub.Unsubscribe()

	snap := recvMessages(t, sub.C)
	require.Len(t, snap, 2)
	last := snap[len(snap)-1]
	assert.Equal(t, "hi", last.Text)
	assert.Equal(t, "bob", last.SenderID)
	assert.Equal(t, "Bob", last.SenderName)
}

func TestSubscribeRedeliversFullSequence(t *testing.T) {
	l, d, _ := newTestLog(t)
	ctx := context.Background()

	convID, err := d.FindOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)

	sub := l.Subscribe(convID)
	defer sub.Unsubscribe()
	assert.Empty(t, recvMessages(t, sub.C))

	_, err = l.Append(ctx, convID, "one", "alice", "Alice")
	require.NoError(t, err)
	snap := recvMessages(t, sub.C)
	require.Len(t, snap, 1)

	_, err = l.Append(ctx, convID, "two", "alice", "Alice")
	require.NoError(t, err)
	snap = recvMessages(t, sub.C)
	require.Len(t, snap, 2, "each delivery is the full sequence, not a diff")
	assert.Equal(t, "one", snap[0].Text)
	assert.Equal(t, "two", snap[1].Text)
}

func TestMessagesNonDecreasingTimestamps(t *testing.T) {
	l, d, _ := newTestLog(t)
	ctx := context.Background()

	convID, err := d.FindOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)
	for _, text := range []string{"a", "b", "c", "d"} {
		_, err := l.Append(ctx, convID, text, "alice", "Alice")
		require.NoError(t, err)
	}

	msgs, err := l.History(ctx, convID)
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	for i := 1; i < len(msgs); i++ {
		assert.False(t, msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt),
			"timestamps must be non-decreasing")
	}
}

func TestAppendEmptyText(t *testing.T) {
	l, d, _ := newTestLog(t)
	ctx := context.Background()

	convID, err := d.FindOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)

	_, err = l.Append(ctx, convID, "   ", "alice", "Alice")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestAppendNonParticipant(t *testing.T) {
	l, d, _ := newTestLog(t)
	ctx := context.Background()

	convID, err := d.FindOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)

	_, err = l.Append(ctx, convID, "hello", "mallory", "Mallory")
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestAppendUnknownConversation(t *testing.T) {
	l, _, _ := newTestLog(t)
	_, err := l.Append(context.Background(), "missing", "hello", "alice", "Alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAppendUpdatesLastMessagePointer(t *testing.T) {
	l, d, st := newTestLog(t)
	ctx := context.Background()

	convID, err := d.FindOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)

	msgID, err := l.Append(ctx, convID, "latest", "alice", "Alice")
	require.NoError(t, err)

	conv, err := st.GetConversation(ctx, convID)
	require.NoError(t, err)
	require.NotNil(t, conv.LastMessage)
	assert.Equal(t, msgID, conv.LastMessage.ID)
	assert.Equal(t, "latest", conv.LastMessage.Text)
	assert.Equal(t, conv.LastMessage.CreatedAt, conv.LastMessageTime)
}

func TestAppendWakesChatListSubscription(t *testing.T) {
	l, d, _ := newTestLog(t)
	ctx := context.Background()

	convID, err := d.FindOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)

	sub := d.Subscribe("bob")
	defer sub.Unsubscribe()
	recvConversations(t, sub.C)

	_, err = l.Append(ctx, convID, "ping", "alice", "Alice")
	require.NoError(t, err)

	snap := recvConversations(t, sub.C)
	require.Len(t, snap, 1)
	require.NotNil(t, snap[0].LastMessage)
	assert.Equal(t, "ping", snap[0].LastMessage.Text)
}
