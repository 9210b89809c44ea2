package ws

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/profitpilotai/controlplane/internal/models"
)

// sendBuffer bounds each subscription's queue. Status is supersede-able, so
// on overflow the oldest event is dropped in favor of the newest.
const sendBuffer = 16

// Subscription is one live status channel bound to a single account. Many may
// exist per account; each receives every BotState change until it is closed.
type Subscription struct {
	ID      string
	LoginID string
	Conn    *websocket.Conn
	Send    chan models.StatusEvent

	closeOnce sync.Once
}

func newSubscription(loginID string, conn *websocket.Conn) *Subscription {
	return &Subscription{
		ID:      uuid.New().String(),
		LoginID: loginID,
		Conn:    conn,
		Send:    make(chan models.StatusEvent, sendBuffer),
	}
}

func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		close(s.Send)
		if s.Conn != nil {
			s.Conn.Close()
		}
	})
}

// Hub fans bot status events out to every live subscription of an account.
// Publishing never blocks on a slow or dead subscriber.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
	log  *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		subs: make(map[string]map[*Subscription]struct{}),
		log:  log,
	}
}

// Subscribe registers a new live subscription for the account. Conn may be
// nil for in-process subscribers.
func (h *Hub) Subscribe(loginID string, conn *websocket.Conn) *Subscription {
	sub := newSubscription(loginID, conn)

	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[loginID]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[loginID] = set
	}
	set[sub] = struct{}{}
	return sub
}

// Unsubscribe removes and closes the subscription. Safe to call twice.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[sub.LoginID]
	if !ok {
		return
	}
	if _, present := set[sub]; !present {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.LoginID)
	}
	sub.close()
}

// Publish delivers the status to every live subscription of the account.
// A full queue sheds its oldest event so only stale state is lost.
func (h *Hub) Publish(loginID string, status models.BotStatus) {
	event := models.NewStatusEvent(status)

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[loginID] {
		select {
		case sub.Send <- event:
		default:
			select {
			case <-sub.Send:
				h.log.Debug("subscription queue full, dropped oldest event",
					zap.String("login_id", loginID),
					zap.String("subscription", sub.ID))
			default:
			}
			select {
			case sub.Send <- event:
			default:
			}
		}
	}
}

// CloseAccount tears down every subscription of the account. Used when the
// account is deactivated or deleted.
func (h *Hub) CloseAccount(loginID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[loginID] {
		sub.close()
	}
	delete(h.subs, loginID)
}

// Shutdown closes every live subscription.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for loginID, set := range h.subs {
		for sub := range set {
			sub.close()
		}
		delete(h.subs, loginID)
	}
}

// Count reports the number of live subscriptions for the account.
func (h *Hub) Count(loginID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[loginID])
}
