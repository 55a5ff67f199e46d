package chat

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sohbetapp/sohbet-server/internal/metrics"
	"github.com/sohbetapp/sohbet-server/internal/models"
	"github.com/sohbetapp/sohbet-server/internal/store"
)

const queryTimeout = 5 * time.Second

// EventSink receives domain events after successful writes. Publishing is
// best-effort: a broker outage never fails the originating write.
type EventSink interface {
	ConversationCreated(ctx context.Context, c *models.Conversation)
	MessageSent(ctx context.Context, m *models.Message, participants []string)
}

// Directory looks up and creates two-party conversations and serves live
// chat-list subscriptions.
type Directory struct {
	convs  store.ConversationStore
	hub    *Hub
	events EventSink
	log    *zap.SugaredLogger
}

func NewDirectory(convs store.ConversationStore, hub *Hub, events EventSink, log *zap.SugaredLogger) *Directory {
	return &Directory{convs: convs, hub: hub, events: events, log: log}
}

// FindOrCreate returns the conversation between a and b, creating it with an
// empty last-message pointer on first contact. Argument order is irrelevant.
// The scan walks a's conversations looking for the pair; the unique pair-key
// index backs it up when two creators race, in which case the loser re-reads
// the winner's record.
func (d *Directory) FindOrCreate(ctx context.Context, a, b string) (string, error) {
	if a == b {
		return "", ErrSameUser
	}
	existing, err := d.convs.ListForParticipant(ctx, a)
	if err != nil {
		return "", err
	}
	for i := range existing {
		c := &existing[i]
		if len(c.Participants) == 2 && c.HasParticipant(b) {
			return c.ID, nil
		}
	}

	c := &models.Conversation{
		ID:           uuid.NewString(),
		Participants: []string{a, b},
		PairKey:      models.PairKey(a, b),
	}
	if err := d.convs.InsertConversation(ctx, c); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			found, ferr := d.convs.FindByPairKey(ctx, c.PairKey)
			if ferr != nil {
				return "", ferr
			}
			return found.ID, nil
		}
		return "", err
	}
	metrics.ConversationsCreated.Inc()
	d.log.Infow("conversation created", "conversation_id", c.ID)
	if d.events != nil {
		d.events.ConversationCreated(ctx, c)
	}
	d.hub.ConversationsChanged(a, b)
	return c.ID, nil
}

// ListForParticipant returns every conversation containing userID, most
// recently active first. No pagination; the full set is assumed to fit in
// memory.
func (d *Directory) ListForParticipant(ctx context.Context, userID string) ([]models.Conversation, error) {
	return d.convs.ListForParticipant(ctx, userID)
}

// Subscribe delivers the current chat list of userID immediately and a fresh
// snapshot after every matching change.
func (d *Directory) Subscribe(userID string) *ConversationSubscription {
	notify := make(chan struct{}, 1)
	done := make(chan struct{})
	out := make(chan []models.Conversation, 1)

	d.hub.addUserWatch(userID, notify)
	stop := func() {
		d.hub.removeUserWatch(userID, notify)
		close(done)
	}

	go func() {
		defer close(out)
		for {
			snap := d.snapshot(userID)
			select {
			case out <- snap:
			case <-done:
				return
			}
			select {
			case <-notify:
			case <-done:
				return
			}
		}
	}()

	return &ConversationSubscription{C: out, stop: stop}
}

// snapshot degrades to an empty list on query failure; subscriptions show
// "no data" rather than erroring out.
func (d *Directory) snapshot(userID string) []models.Conversation {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	convs, err := d.convs.ListForParticipant(ctx, userID)
	if err != nil {
		d.log.Warnw("chat list snapshot", "user_id", userID, "err", err)
		return []models.Conversation{}
	}
	if convs == nil {
		convs = []models.Conversation{}
	}
	return convs
}
