// Package chathub owns the live side of the messaging core: the registry of
// connected sessions, the per-conversation fan-out of events, and the
// translation of wire commands into message-store and status-tracker calls.
//
// Fan-out is best-effort and at-most-once per connected session: the hub is
// not a durability mechanism. A session that is disconnected (or whose queue
// is full) at publish time simply misses the event and reconciles through the
// catch-up query after reconnecting.
package chathub

import (
	"log"
	"sync"

	"github.com/larrysaam/scholar-connect-sub004/internal/models"
)

// Hub is the in-process event hub. All state is guarded by a single RWMutex;
// reads (fan-out, liveness checks) vastly outnumber writes (connect,
// disconnect, subscribe).
type Hub struct {
	mu sync.RWMutex

	// sessions indexes every connected session by its session id.
	sessions map[string]Session
	// subscribers maps conversation id -> session id -> session.
	subscribers map[string]map[string]Session
	// sessionConvs is the reverse index used to clean up on disconnect.
	sessionConvs map[string]map[string]bool
}

func NewHub() *Hub {
	return &Hub{
		sessions:     make(map[string]Session),
		subscribers:  make(map[string]map[string]Session),
		sessionConvs: make(map[string]map[string]bool),
	}
}

// Register adds a freshly connected session to the hub.
func (h *Hub) Register(sess Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[sess.SessionID()] = sess
	log.Printf("Session %s registered for user %s", sess.SessionID(), sess.UserID())
}

// Unregister removes the session and every subscription it holds. Message
// state is untouched: a disconnected recipient does not revert anything.
func (h *Hub) Unregister(sess Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := sess.SessionID()
	if _, ok := h.sessions[id]; !ok {
		return
	}
	delete(h.sessions, id)
	for convID := range h.sessionConvs[id] {
		if subs, ok := h.subscribers[convID]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(h.subscribers, convID)
			}
		}
	}
	delete(h.sessionConvs, id)
	log.Printf("Session %s unregistered for user %s", id, sess.UserID())
}

// Subscribe adds the session to the fan-out set of the conversation.
// Authorization (participant check) is the commander's job, not the hub's.
func (h *Hub) Subscribe(sess Session, conversationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := sess.SessionID()
	if _, ok := h.sessions[id]; !ok {
		return // disconnected in the meantime
	}
	if h.subscribers[conversationID] == nil {
		h.subscribers[conversationID] = make(map[string]Session)
	}
	h.subscribers[conversationID][id] = sess

	if h.sessionConvs[id] == nil {
		h.sessionConvs[id] = make(map[string]bool)
	}
	h.sessionConvs[id][conversationID] = true
}

// Unsubscribe removes the session from the conversation's fan-out set.
func (h *Hub) Unsubscribe(sess Session, conversationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := sess.SessionID()
	if subs, ok := h.subscribers[conversationID]; ok {
		delete(subs, id)
		if len(subs) == 0 {
			delete(h.subscribers, conversationID)
		}
	}
	if convs, ok := h.sessionConvs[id]; ok {
		delete(convs, conversationID)
	}
}

// Publish fans the event out to every session subscribed to its conversation.
// Nobody is excluded: senders observe their own messages turning read on the
// other party's screen through the same read-receipt events. Delivery into a
// session is a non-blocking enqueue, so one slow client never stalls the rest.
func (h *Hub) Publish(event models.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sess := range h.subscribers[event.ConversationID] {
		if !sess.Deliver(event) {
			log.Printf("WARNING: Dropped %s event for slow session %s (conversation %s)",
				event.Type, sess.SessionID(), event.ConversationID)
		}
	}
}

// HasSubscribedSession reports whether the user currently has at least one
// live session subscribed to the conversation. This is the definition of
// "delivered": the message reached a live recipient session.
func (h *Hub) HasSubscribedSession(conversationID, userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sess := range h.subscribers[conversationID] {
		if sess.UserID() == userID {
			return true
		}
	}
	return false
}

// SubscriberCount is used by tests and the admin surface.
func (h *Hub) SubscriberCount(conversationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[conversationID])
}
