package chat

import (
	"sync"

	"github.com/sohbetapp/sohbet-server/internal/models"
)

// Hub routes change notifications to live subscriptions. Writers call the
// Notify methods after a successful store write; the Kafka consumer calls
// them for writes made by other instances. Notifications only say "something
// changed" — each subscription re-queries the store and delivers a full
// snapshot, never a diff.
type Hub struct {
	mu        sync.RWMutex
	convWatch map[string]map[chan struct{}]struct{} // conversationID -> message subscriptions
	userWatch map[string]map[chan struct{}]struct{} // userID -> conversation-list subscriptions
}

func NewHub() *Hub {
	return &Hub{
		convWatch: make(map[string]map[chan struct{}]struct{}),
		userWatch: make(map[string]map[chan struct{}]struct{}),
	}
}

// MessagesChanged wakes subscriptions on a conversation's message sequence.
func (h *Hub) MessagesChanged(conversationID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.convWatch[conversationID] {
		poke(ch)
	}
}

// ConversationsChanged wakes the chat-list subscriptions of each user.
func (h *Hub) ConversationsChanged(userIDs ...string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, uid := range userIDs {
		for ch := range h.userWatch[uid] {
			poke(ch)
		}
	}
}

// poke coalesces: the channel is buffered with capacity 1, a pending wakeup
// already covers this change.
func poke(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (h *Hub) addConvWatch(conversationID string, ch chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.convWatch[conversationID] == nil {
		h.convWatch[conversationID] = make(map[chan struct{}]struct{})
	}
	h.convWatch[conversationID][ch] = struct{}{}
}

func (h *Hub) removeConvWatch(conversationID string, ch chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.convWatch[conversationID], ch)
	if len(h.convWatch[conversationID]) == 0 {
		delete(h.convWatch, conversationID)
	}
}

func (h *Hub) addUserWatch(userID string, ch chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.userWatch[userID] == nil {
		h.userWatch[userID] = make(map[chan struct{}]struct{})
	}
	h.userWatch[userID][ch] = struct{}{}
}

func (h *Hub) removeUserWatch(userID string, ch chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.userWatch[userID], ch)
	if len(h.userWatch[userID]) == 0 {
		delete(h.userWatch, userID)
	}
}

// ConversationSubscription delivers full chat-list snapshots on C. The first
// snapshot arrives right after Subscribe, later ones after every matching
// change. Unsubscribe is idempotent.
type ConversationSubscription struct {
	C    <-chan []models.Conversation
	once sync.Once
	stop func()
}

func (s *ConversationSubscription) Unsubscribe() { s.once.Do(s.stop) }

// MessageSubscription delivers the full ordered message sequence of one
// conversation on C, re-delivered after every new message.
type MessageSubscription struct {
	C    <-chan []models.Message
	once sync.Once
	stop func()
}

func (s *MessageSubscription) Unsubscribe() { s.once.Do(s.stop) }
