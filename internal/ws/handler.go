// Package ws serves the live subscription endpoints. Each connection maps to
// exactly one snapshot subscription: the chat list of the authenticated user,
// or the message sequence of one conversation. Snapshots are pushed as JSON
// frames; closing the socket is the unsubscribe.
package ws

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/sohbetapp/sohbet-server/internal/auth"
	"github.com/sohbetapp/sohbet-server/internal/cache"
	"github.com/sohbetapp/sohbet-server/internal/chat"
	"github.com/sohbetapp/sohbet-server/internal/metrics"
)

type Handler struct {
	tokens    *auth.Tokens
	directory *chat.Directory
	messages  *chat.Log
	presence  *cache.Client
	log       *zap.SugaredLogger
}

func NewHandler(tokens *auth.Tokens, directory *chat.Directory, messages *chat.Log, presence *cache.Client, log *zap.SugaredLogger) *Handler {
	return &Handler{tokens: tokens, directory: directory, messages: messages, presence: presence, log: log}
}

// Upgrade gates the ws routes behind a proper upgrade request.
func Upgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

func (h *Handler) authenticate(conn *websocket.Conn) (string, bool) {
	uid, err := h.tokens.Verify(conn.Query("token"))
	if err != nil {
		_ = conn.WriteJSON(fiber.Map{"error": "invalid token"})
		return "", false
	}
	return uid, true
}

// Conversations streams chat-list snapshots of the authenticated user.
func (h *Handler) Conversations() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		defer conn.Close()
		uid, ok := h.authenticate(conn)
		if !ok {
			return
		}
		sub := h.directory.Subscribe(uid)
		defer sub.Unsubscribe()

		h.setPresence(uid, true)
		defer h.setPresence(uid, false)
		metrics.SubscriptionsActive.Inc()
		defer metrics.SubscriptionsActive.Dec()
		h.log.Infow("chat list subscription opened", "user_id", uid)

		go watchClose(conn, sub.Unsubscribe)
		for snap := range sub.C {
			if err := conn.WriteJSON(fiber.Map{"conversations": snap}); err != nil {
				return
			}
		}
	})
}

// Messages streams full message-sequence snapshots for one conversation.
func (h *Handler) Messages() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		defer conn.Close()
		uid, ok := h.authenticate(conn)
		if !ok {
			return
		}
		convID := conn.Params("id")
		sub := h.messages.Subscribe(convID)
		defer sub.Unsubscribe()

		h.setPresence(uid, true)
		defer h.setPresence(uid, false)
		metrics.SubscriptionsActive.Inc()
		defer metrics.SubscriptionsActive.Dec()
		h.log.Infow("message subscription opened", "user_id", uid, "conversation_id", convID)

		go watchClose(conn, sub.Unsubscribe)
		for snap := range sub.C {
			if err := conn.WriteJSON(fiber.Map{"messages": snap}); err != nil {
				return
			}
		}
	})
}

// watchClose unsubscribes when the peer goes away, which closes the snapshot
// channel and unblocks the write loop.
func watchClose(conn *websocket.Conn, unsubscribe func()) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			unsubscribe()
			return
		}
	}
}

func (h *Handler) setPresence(userID string, online bool) {
	if h.presence == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.presence.SetPresence(ctx, userID, online); err != nil {
		h.log.Warnw("presence update", "user_id", userID, "err", err)
	}
}
